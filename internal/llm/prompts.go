package llm

import "strings"

// feedbackResponseFormat describes the Feedback JSON document the model must
// return. It is embedded verbatim in the analysis instructions.
const feedbackResponseFormat = `interface Feedback {
  overallScore: number; //max 100
  ATS: {
    score: number; //rate based on ATS suitability
    tips: {
      type: "good" | "improve";
      tip: string; //give 3-4 tips
    }[];
  };
  toneAndStyle: {
    score: number; //max 100
    tips: {
      type: "good" | "improve";
      tip: string; //make it a short "title" for the actual explanation
      explanation: string; //explain in detail here
    }[]; //give 3-4 tips
  };
  content: {
    score: number; //max 100
    tips: {
      type: "good" | "improve";
      tip: string; //make it a short "title" for the actual explanation
      explanation: string; //explain in detail here
    }[]; //give 3-4 tips
  };
  structure: {
    score: number; //max 100
    tips: {
      type: "good" | "improve";
      tip: string; //make it a short "title" for the actual explanation
      explanation: string; //explain in detail here
    }[]; //give 3-4 tips
  };
  skills: {
    score: number; //max 100
    tips: {
      type: "good" | "improve";
      tip: string; //make it a short "title" for the actual explanation
      explanation: string; //explain in detail here
    }[]; //give 3-4 tips
  };
}`

const analysisInstructionsTemplate = `You are an expert in ATS (Applicant Tracking System) and resume analysis.
Please analyze and rate this resume and suggest how to improve it.
Use the following grading scale to keep scores consistent:
- 90-100: Resume is highly aligned with the job and ATS best practices.
- 75-89: Strong resume with a few targeted improvements needed.
- 60-74: Generally solid but missing structure, clarity, or key keywords.
- 40-59: Requires notable revisions before submission.
- <40: Major formatting/content issues that block ATS parsing.
Always make sure the numeric score reflects the sentiment of your written tips.
Be thorough and detailed. Don't be afraid to point out any mistakes or areas for improvement.
If there is a lot to improve, don't hesitate to give low scores. This is to help the user to improve their resume.
If available, use the job description for the job user is applying to to give more detailed feedback.
If provided, take the job description into consideration.
The job title is: {{JOB_TITLE}}
The job description is: {{JOB_DESCRIPTION}}
Provide the feedback using the following format:
{{RESPONSE_FORMAT}}
Return the analysis as an JSON object, without any other text and without the backticks.
Do not include any other text or comments.`

const strengthsInstructionsTemplate = `You are an expert HR recruiter analyzing a candidate's resume for a recruitment decision.
Analyze this candidate's resume and identify their key strengths that make them a strong fit for this position.
The job title is: {{JOB_TITLE}}
The job description is: {{JOB_DESCRIPTION}}

Provide a comprehensive analysis focusing on:
1. Technical Skills & Expertise - What technical skills and tools do they excel at?
2. Experience & Achievements - What notable achievements and relevant experience do they have?
3. Education & Certifications - What educational background and certifications do they possess?
4. Soft Skills & Leadership - What soft skills, leadership qualities, or team collaboration abilities do they demonstrate?
5. Cultural Fit - How well do their values, work style, and career goals align with the role?

For each category, provide:
- A score from 0-100 indicating how strong they are in that area
- 3-5 specific bullet points highlighting their strengths

Return the analysis in the following JSON format:
{
  "strengths": [
    {
      "category": "Technical Skills & Expertise",
      "score": 85,
      "points": [
        "5+ years of experience with React and TypeScript",
        "Strong background in cloud infrastructure (AWS, Azure)"
      ]
    }
  ]
}

Return ONLY the JSON object, without any other text, markdown formatting, or backticks.`

// AnalysisInstructions builds the resume-feedback prompt for a target role.
func AnalysisInstructions(jobTitle, jobDescription string) string {
	replacer := strings.NewReplacer(
		"{{JOB_TITLE}}", jobTitle,
		"{{JOB_DESCRIPTION}}", jobDescription,
		"{{RESPONSE_FORMAT}}", feedbackResponseFormat,
	)
	return replacer.Replace(analysisInstructionsTemplate)
}

// StrengthsInstructions builds the candidate-strengths prompt for a target role.
func StrengthsInstructions(jobTitle, jobDescription string) string {
	replacer := strings.NewReplacer(
		"{{JOB_TITLE}}", jobTitle,
		"{{JOB_DESCRIPTION}}", jobDescription,
	)
	return replacer.Replace(strengthsInstructionsTemplate)
}
