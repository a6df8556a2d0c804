package sandbox

// Language supplies the two language-specific values a sandbox needs: the
// tag sent on sandbox.repl.run calls and the image used when Start is called
// without an explicit one. All lifecycle and protocol behavior is shared
// across languages; supporting a new one only requires a new Language value.
type Language interface {
	// Tag returns the language identifier used on the wire.
	Tag() string
	// DefaultImage returns the image used when none is given to Start.
	DefaultImage() string
}

type pythonLang struct{}

func (pythonLang) Tag() string          { return "python" }
func (pythonLang) DefaultImage() string { return "boxlet/python" }

type nodeLang struct{}

func (nodeLang) Tag() string          { return "nodejs" }
func (nodeLang) DefaultImage() string { return "boxlet/node" }

// Python is the Language for Python sandboxes.
var Python Language = pythonLang{}

// Node is the Language for Node.js sandboxes.
var Node Language = nodeLang{}

// ByTag resolves a wire tag to one of the built-in languages.
func ByTag(tag string) (Language, bool) {
	switch tag {
	case Python.Tag():
		return Python, true
	case Node.Tag():
		return Node, true
	default:
		return nil, false
	}
}
