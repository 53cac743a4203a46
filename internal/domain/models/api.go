package models

// ValueRequest carries a single field value set through the API.
type ValueRequest struct {
	Value string `json:"value"`
}

// SessionState is returned after every session read or mutation.
type SessionState struct {
	SessionID string            `json:"sessionId"`
	Message   string            `json:"message,omitempty"`
	Record    CertificateRecord `json:"record"`
	Draft     LineItem          `json:"draft"`
}

// Catalog exposes the fixed option sets used by the form.
type Catalog struct {
	MaterialGrades []MaterialGrade `json:"materialGrades"`
	Elements       []Element       `json:"elements"`
}
