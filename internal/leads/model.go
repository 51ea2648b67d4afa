package leads

import "strings"

// Submission is one inbound lead from the public web form. It is consumed
// once by the intake pipeline and never stored.
type Submission struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Service        string `json:"service"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// Validate checks that the required fields are present and non-empty after
// trimming. Field formats (email shape, phone shape) are deliberately not
// checked; presence is the only contract with the front-end.
func (s *Submission) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(s.Service) == "" {
		missing = append(missing, "service")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}
