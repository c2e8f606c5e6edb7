package cbi

// Template identifiers handed to renderers. Renderers resolve them however
// they like; the engine only guarantees which identifier each node kind
// sends.
const (
	TemplateMap          = "cbi/map"
	TemplateNamedSection = "cbi/nsection"
	TemplateTypedSection = "cbi/tsection"
	TemplateValue        = "cbi/value"
	TemplateFlag         = "cbi/fvalue"
	TemplateListValue    = "cbi/lvalue"
	TemplateMultiValue   = "cbi/mvalue"
)

// Node carries what every element of the tree shares: a title, a longer
// description and the template identifier a renderer resolves for it.
type Node struct {
	Title       string
	Description string
	Template    string
}

func newNode(template string, text ...string) Node {
	n := Node{Template: template}
	if len(text) > 0 {
		n.Title = text[0]
	}
	if len(text) > 1 {
		n.Description = text[1]
	}
	return n
}

// Section is the closed set of section kinds a Map holds. Instances are
// built through Map.NamedSection and Map.TypedSection.
type Section interface {
	Parse(form Form) error
	Render(r Renderer) error
	SectionType() string
	Fields() []Field
	Optionals(section string) []Field

	isSection()
}

// Field is the closed set of leaf kinds a section holds. Instances are
// built through the section factories.
type Field interface {
	Parse(section string, form Form) error
	Render(r Renderer, section string) error
	OptionName() string
	IsOptional() bool
	DefaultValue() string
	ConfigValue(section string) (string, bool)
	Invalid(section string) bool

	isField()
}
