package dto

// WebhookEvent is the outer envelope delivered by the inbound-email trigger.
// Body is a pointer so a missing key can be told apart from an empty string.
type WebhookEvent struct {
	Body *string `json:"body"`
}

// EmailPayload is the inbound-email JSON carried inside the envelope body.
// The upstream mail collaborator produces Postmark-style key casing.
type EmailPayload struct {
	HTMLBody    *string      `json:"HtmlBody"`
	Attachments []Attachment `json:"Attachments"`
}

// Attachment is one inbound file; Content arrives already base64 encoded.
type Attachment struct {
	Name        string `json:"Name"`
	Content     string `json:"Content"`
	ContentType string `json:"ContentType"`
}
