package resumes

// listResponse is the collection-view payload. Resumes is the filtered,
// sorted view; Selected is the shortlist ordered by score; Stats counts
// the view and averages over the full set.
type listResponse struct {
	Resumes  []Resume `json:"resumes"`
	Selected []Resume `json:"selected"`
	Stats    Stats    `json:"stats"`
}

type editRequest struct {
	CompanyName    *string `json:"companyName"`
	JobTitle       *string `json:"jobTitle"`
	JobDescription *string `json:"jobDescription"`
	CandidateName  *string `json:"candidateName"`
	CandidateEmail *string `json:"candidateEmail"`
}

func (r editRequest) toInput() EditInput {
	return EditInput{
		CompanyName:    r.CompanyName,
		JobTitle:       r.JobTitle,
		JobDescription: r.JobDescription,
		CandidateName:  r.CandidateName,
		CandidateEmail: r.CandidateEmail,
	}
}
