package resumes

import "time"

// Tip types used across all feedback categories.
const (
	TipGood    = "good"
	TipImprove = "improve"
)

// Resume is one tracked submission. The JSON field names are the stored
// wire shape; records are serialized to JSON strings in the key-value
// store under `resume:<id>`.
type Resume struct {
	ID             string              `json:"id"`
	CompanyName    string              `json:"companyName,omitempty"`
	JobTitle       string              `json:"jobTitle,omitempty"`
	JobDescription string              `json:"jobDescription,omitempty"`
	ImagePath      string              `json:"imagePath,omitempty"`
	ResumePath     string              `json:"resumePath"`
	Feedback       *Feedback           `json:"feedback,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
	IsSelected     bool                `json:"isSelected,omitempty"`
	CandidateName  string              `json:"candidateName,omitempty"`
	CandidateEmail string              `json:"candidateEmail,omitempty"`
	Strengths      []CandidateStrength `json:"strengths,omitempty"`
}

// Feedback is the structured analysis for one resume, replaced wholesale
// on every (re-)analysis.
type Feedback struct {
	OverallScore float64  `json:"overallScore"`
	ATS          Category `json:"ATS"`
	ToneAndStyle Category `json:"toneAndStyle"`
	Content      Category `json:"content"`
	Structure    Category `json:"structure"`
	Skills       Category `json:"skills"`
}

// Category is one scored sub-report.
type Category struct {
	Score float64 `json:"score"`
	Tips  []Tip   `json:"tips"`
}

// Tip is a single piece of advice. ATS tips carry no explanation.
type Tip struct {
	Type        string `json:"type"`
	Tip         string `json:"tip"`
	Explanation string `json:"explanation,omitempty"`
}

// CandidateStrength is one category of the candidate-strength analysis.
type CandidateStrength struct {
	Category string   `json:"category"`
	Score    float64  `json:"score"`
	Points   []string `json:"points"`
}

// OverallScore returns the headline score, 0 when the record has no
// feedback yet.
func (r Resume) OverallScore() float64 {
	if r.Feedback == nil {
		return 0
	}
	return r.Feedback.OverallScore
}

// EffectiveTime is the timestamp records sort by: updatedAt when set,
// otherwise createdAt.
func (r Resume) EffectiveTime() time.Time {
	if !r.UpdatedAt.IsZero() {
		return r.UpdatedAt
	}
	return r.CreatedAt
}

// SupportingScores returns the four non-ATS sub-scores used to
// sanity-check the ATS score.
func SupportingScores(f *Feedback) []float64 {
	if f == nil {
		return nil
	}
	return []float64{
		f.ToneAndStyle.Score,
		f.Content.Score,
		f.Structure.Score,
		f.Skills.Score,
	}
}
