package types

// Submission is the canonical body forwarded to the upstream API.
// It is built per request and never persisted here.
type Submission struct {
	FormPurpose       string `json:"formPurpose"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	HelpNeededOffered string `json:"helpNeededOffered"`

	Attachments []Attachment `json:"-"`
}

// DefaultFormPurpose is used when the form does not say what kind of request it is.
const DefaultFormPurpose = "Tech support"

// Attachment is a file uploaded with a submission.
type Attachment struct {
	Filename string
	Content  []byte
}

// Fields returns the body as ordered form fields, used for multipart encoding.
func (s *Submission) Fields() [][2]string {
	return [][2]string{
		{"formPurpose", s.FormPurpose},
		{"firstName", s.FirstName},
		{"lastName", s.LastName},
		{"email", s.Email},
		{"phone", s.Phone},
		{"helpNeededOffered", s.HelpNeededOffered},
	}
}

// NamedAttachments drops attachments without a filename.
func (s *Submission) NamedAttachments() []Attachment {
	named := make([]Attachment, 0, len(s.Attachments))
	for _, a := range s.Attachments {
		if a.Filename != "" {
			named = append(named, a)
		}
	}
	return named
}
