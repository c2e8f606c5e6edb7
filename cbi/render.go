package cbi

// Renderer draws one node at a time. The engine walks the tree depth-first
// and calls Render with the node's template identifier; how the identifier
// resolves to output is the renderer's business.
type Renderer interface {
	Render(template string, ctx Context) error
}

// Context accompanies every Render call. Node holds the concrete node
// (*Map, *NamedSection, *TypedSection or one of the field kinds). Section
// carries the section instance name for instance- and field-scoped calls
// and is empty for the Map and for a TypedSection's frame call.
type Context struct {
	Map     *Map
	Node    any
	Section string
}
