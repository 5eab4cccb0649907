// internal/domain/models/submission.go
package models

// Submission is the trimmed name and email taken from a POST /submit body.
// It lives for one request only.
type Submission struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Receipt is the success payload returned for an accepted submission.
type Receipt struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Timestamp string  `json:"timestamp"`
	Status    string  `json:"status"`
	Details   Details `json:"details"`
}

// Details carries the derived facts about an accepted submission.
type Details struct {
	NameLength     int    `json:"name_length"`
	EmailDomain    string `json:"email_domain"`
	SubmissionTime string `json:"submission_time"`
}
