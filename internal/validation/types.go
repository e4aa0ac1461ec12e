package validation

const (
	TypeCommandExists = "command_exists"
	TypeFileExists    = "file_exists"
	TypePathContains  = "path_contains"
)

// Check is a single post-run assertion about the machine state.
type Check struct {
	Type    string
	Command string
	Path    string
	File    string
	Text    string
}

// String renders the check the way it appears in run logs.
func (c Check) String() string {
	switch c.Type {
	case TypeCommandExists:
		return "command_exists " + c.Command
	case TypeFileExists:
		return "file_exists " + c.Path
	case TypePathContains:
		return "path_contains " + c.File + " " + c.Text
	default:
		return c.Type
	}
}

// Result captures the outcome of executing a single check.
type Result struct {
	Check   Check
	Passed  bool
	Message string
	Error   error
}
