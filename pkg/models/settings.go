package models

// EmailSettings configures outbound restock notifications. The core never
// mutates this beyond saving what the settings endpoint receives.
type EmailSettings struct {
	Enabled        bool   `json:"enabled"`
	SenderEmail    string `json:"sender_email"`
	SenderPassword string `json:"-"` // app password, never serialized outward
	RecipientEmail string `json:"recipient_email"`
}

// Configured reports whether every field needed to send mail is present.
func (s EmailSettings) Configured() bool {
	return s.SenderEmail != "" && s.SenderPassword != "" && s.RecipientEmail != ""
}
