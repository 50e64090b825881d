package mailer

// EmailJob is one outbound email. It is sent directly or put on the RabbitMQ queue as JSON.
// Either Template (+Data) or Subject with Text/HTML must be set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "todo_created" or "todo_reminder"
	Data     map[string]any `json:"data,omitempty"`
}
