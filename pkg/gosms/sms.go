package gosms

// Sender abstracts over the configured SMS provider.
type Sender interface {
	Send(SMS) error
}

type SMS struct {
	To   string `json:"to"`
	Text string `json:"text,omitempty"`
}
