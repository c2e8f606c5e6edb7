package uci

import "sort"

// Reserved option keys. Keys starting with a dot carry section metadata and
// never name real options.
const (
	TypeKey      = ".type"
	AnonymousKey = ".anonymous"
)

// Options holds one section: its option values plus the reserved metadata
// keys.
type Options map[string]string

// Type returns the section type stored under the ".type" key.
func (o Options) Type() string {
	return o[TypeKey]
}

// Anonymous reports whether the section carries a generated name.
func (o Options) Anonymous() bool {
	return o[AnonymousKey] == "1"
}

// Clone returns an independent copy.
func (o Options) Clone() Options {
	if o == nil {
		return nil
	}
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Namespace holds the contents of one config: section name → options.
type Namespace map[string]Options

// Clone returns an independent copy, sections included.
func (n Namespace) Clone() Namespace {
	if n == nil {
		return nil
	}
	out := make(Namespace, len(n))
	for name, opts := range n {
		out[name] = opts.Clone()
	}
	return out
}

// Names returns the section names in sorted order. The namespace is a map;
// callers that need a stable iteration order go through this.
func (n Namespace) Names() []string {
	names := make([]string, 0, len(n))
	for name := range n {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Store is the contract between the binding engine and a configuration
// backend. Implementations may talk to files, RPC daemons or anything else
// that models named configs of typed sections.
type Store interface {
	// Show returns the full contents of a config. The returned namespace is
	// owned by the caller; mutating it does not touch the store.
	Show(config string) (Namespace, error)

	// Get reads a single option value. The bool reports whether the config,
	// section and option all exist.
	Get(config, section, option string) (string, bool)

	// Set writes one option value. With option == "" it creates the named
	// section, taking value as the section type; on an existing section it
	// retypes it.
	Set(config, section, option, value string) error

	// AddSection creates an anonymous section of the given type and returns
	// the generated name.
	AddSection(config, sectiontype string) (string, error)

	// Delete removes one option. Removing an option that is already absent
	// is a no-op.
	Delete(config, section, option string) error

	// DeleteSection removes a whole section. Removing an absent section is
	// a no-op.
	DeleteSection(config, section string) error
}
