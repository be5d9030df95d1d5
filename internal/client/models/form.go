package models

import "time"

// Form is an intake or consent form assigned to the patient.
type Form struct {
	ID      FlexID `json:"id"`
	Title   string `json:"title"`
	DueDate string `json:"due_date,omitempty"`
	Done    bool   `json:"done"`
}

// FormSubmission carries the patient's answers for one form.
type FormSubmission struct {
	FormID  int64             `json:"form_id"`
	Answers map[string]string `json:"answers"`
}

// Statement is one billing statement line.
type Statement struct {
	ID          FlexID     `json:"id"`
	Description string     `json:"description"`
	AmountCents int64      `json:"amount_cents"`
	IssuedAt    *time.Time `json:"issued_at"`
	Paid        bool       `json:"paid"`
}
