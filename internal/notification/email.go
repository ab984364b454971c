package notification

import (
	"net/mail"
)

// Attachment carries one file as base64-encoded content. Decoding happens at
// the adapter, right before the provider call.
type Attachment struct {
	FileName string `json:"file_name"`
	File     string `json:"file"`
}

type EmailItem struct {
	To                  []string       `json:"to"`
	CC                  []string       `json:"cc,omitempty"`
	BCC                 []string       `json:"bcc,omitempty"`
	Subject             string         `json:"subject,omitempty"`
	Message             string         `json:"message,omitempty"`
	TemplateID          string         `json:"template_id,omitempty"`
	DynamicTemplateData map[string]any `json:"dynamic_template_data,omitempty"`
	Attachments         []Attachment   `json:"attachments,omitempty"`
}

func (i *EmailItem) Channel() Channel { return ChannelEmail }

func (i *EmailItem) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if len(i.To) == 0 {
		errs.add("to", "at least one recipient is required")
	}
	for _, addr := range i.To {
		if !validEmail(addr) {
			errs.add("to", "invalid email address: "+addr)
		}
	}
	for _, addr := range i.CC {
		if !validEmail(addr) {
			errs.add("cc", "invalid email address: "+addr)
		}
	}
	for _, addr := range i.BCC {
		if !validEmail(addr) {
			errs.add("bcc", "invalid email address: "+addr)
		}
	}

	// Plain emails need a subject and body; templated ones carry both in the
	// template itself.
	if i.TemplateID == "" {
		if i.Subject == "" {
			errs.add("subject", "subject is required for plain messages")
		}
		if i.Message == "" {
			errs.add("message", "message is required for plain messages")
		}
	}

	for _, att := range i.Attachments {
		if att.FileName == "" {
			errs.add("attachments", "attachment file_name is required")
		}
		if att.File == "" {
			errs.add("attachments", "attachment file content is required")
		}
	}

	return errs
}

func validEmail(addr string) bool {
	if addr == "" {
		return false
	}
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}
