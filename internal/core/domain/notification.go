package domain

// NotificationPurpose selects the message a sink renders for a token.
type NotificationPurpose string

const (
	PurposeVerifyEmail   NotificationPurpose = "verify_email"
	PurposeResetPassword NotificationPurpose = "reset_password"
)

// Notification carries a single-use token to a recipient.
type Notification struct {
	Purpose   NotificationPurpose `json:"purpose"`
	Recipient string              `json:"recipient"`
	Token     string              `json:"token"`
	Link      string              `json:"link,omitempty"`
}
