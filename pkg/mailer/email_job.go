package mailer

import (
	"fmt"
	"strings"
)

// EmailJob is the JSON message on the email queue. Producers (registration,
// payment verification) set Template and Data; the worker renders them.
// Raw jobs carry Subject and Text/HTML directly.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Normalize trims the recipient and fills Data.Email from it when the
// producer left it empty.
func (j *EmailJob) Normalize() {
	j.To = strings.TrimSpace(j.To)
	if j.Data == nil {
		j.Data = map[string]any{}
	}
	if v, ok := j.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		j.Data["Email"] = j.To
	}
}
