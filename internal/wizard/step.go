package wizard

// Field describes one input of a step for the hosting view.
type Field struct {
	Name        string
	Label       string
	Placeholder string
	Options     []string // suggested values, shown as a hint or a select
	Multi       bool     // value is a comma separated list of Options
	Secret      bool
}

// Step is one screen of a wizard. Its position in the wizard is its index.
type Step struct {
	Key         string
	Title       string
	Description string
	Fields      []Field
	Validate    Validator // nil always passes
	Hint        string    // shown when Validate blocks Next
}

func (s Step) passes(f Fields) bool {
	if s.Validate == nil {
		return true
	}
	return s.Validate(f)
}

// State is a point-in-time copy of a wizard's cursor and fields.
type State struct {
	Current int
	Total   int
	Fields  Fields
}
