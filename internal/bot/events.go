package bot

// Event is one inbound chat interaction. The transport adapter produces
// exactly one of the concrete variants below; handlers switch on the type
// rather than string-matching raw payloads.
type Event interface {
	isEvent()
}

// CommandInvoked is a slash/prefix command with whitespace-split arguments.
// IsAdmin is the transport-supplied administrator capability; the core
// trusts it.
type CommandInvoked struct {
	Name      string
	Args      []string
	InvokerID string
	IsAdmin   bool
}

func (CommandInvoked) isEvent() {}

// ButtonPressed is a press of a panel action.
type ButtonPressed struct {
	CustomID  string
	InvokerID string
}

func (ButtonPressed) isEvent() {}

// Action is one selectable panel button.
type Action struct {
	Label    string `json:"label"`
	CustomID string `json:"customId"`
}

// Panel is structured reply content: an embed-style card with buttons.
type Panel struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Color       string   `json:"color"`
	Image       string   `json:"image,omitempty"`
	Actions     []Action `json:"actions,omitempty"`
}

// Reply is what the core hands back to the transport. A zero Reply means
// nothing is sent.
type Reply struct {
	Text      string `json:"text,omitempty"`
	Panel     *Panel `json:"panel,omitempty"`
	Ephemeral bool   `json:"ephemeral,omitempty"`
}

func (r Reply) IsZero() bool {
	return r.Text == "" && r.Panel == nil
}

// Text builds a plain text reply.
func Text(s string) Reply {
	return Reply{Text: s}
}

// Ephemeral builds a text reply shown only to the invoker.
func Ephemeral(s string) Reply {
	return Reply{Text: s, Ephemeral: true}
}
