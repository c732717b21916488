package assessment

import "encoding/json"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Notification is the transient message shown after an action. The zero
// value is closed; an open notification always has a severity and message.
type Notification struct {
	severity Severity
	message  string
}

func Notify(severity Severity, message string) Notification {
	return Notification{severity: severity, message: message}
}

func (n Notification) Open() bool {
	return n.severity != ""
}

func (n Notification) Severity() Severity {
	return n.severity
}

func (n Notification) Message() string {
	return n.message
}

func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Open     bool     `json:"open"`
		Severity Severity `json:"severity,omitempty"`
		Message  string   `json:"message,omitempty"`
	}{n.Open(), n.severity, n.message})
}
