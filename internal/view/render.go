package view

// Placeholder shown for missing optional values.
const Placeholder = "N/A"

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// Panel is the declarative description of a view's content. Controllers build
// panels from fetched models; the front end decides how to draw them.
type Panel struct {
	View    View
	Title   string
	Loading bool

	// Error is an inline, view-local failure message. Notice is a transient
	// success acknowledgment. Empty marks a deliberately empty list, which is
	// not an error.
	Error  string
	Notice string
	Empty  string

	Items   []Item
	Fields  []Field
	Overlay *Overlay

	// SaveVisible is set while at least one profile field is mid-edit.
	SaveVisible bool
}

// Item is one row in a list panel.
type Item struct {
	Title  string
	Lines  []string
	Badge  string
	Action *Action
}

// Action is a navigation affordance attached to an item, handed to an
// external flow with its parameters (e.g. the evaluation-taking page).
type Action struct {
	Name   string
	Params map[string]string
}

// Field is one profile row. Editing fields display the in-progress input
// value instead of the server value.
type Field struct {
	Name     string
	Label    string
	Value    string
	Editable bool
	Editing  bool
}

// Overlay is the singleton detail layer above a panel; opening a new one
// replaces any existing one.
type Overlay struct {
	Title    string
	Sections []OverlaySection
}

// OverlaySection is one titled block inside an overlay.
type OverlaySection struct {
	Heading string
	Rows    []string
}

// Header carries the identity strip shown above every panel.
type Header struct {
	Name       string
	StudentID  string
	Batch      string
	Department string
	AvatarURL  string
}

// Renderer consumes panel descriptions and user-facing notices.
type Renderer interface {
	Render(p Panel)
	Notify(title, message string)
	SetHeader(h Header)
}
