package cbi

import "sort"

// TypedSection binds every snapshot instance of one section type, narrowed
// by an optional Scope filter. With AddRemove it honors create and remove
// requests; created instances are anonymous or carry a submitted name that
// must pass the Valid filter.
type TypedSection struct {
	section

	Anonymous bool
	Scope     NameFilter
	Valid     NameFilter

	// ErrInvalid records a rejected create request for the renderer. Like
	// field invalid marks, it lives for one parse cycle.
	ErrInvalid bool
}

// UCISections returns the instance names of this section's type passing
// Scope, in sorted order.
func (s *TypedSection) UCISections() []string {
	var names []string
	for name, opts := range s.m.data {
		if opts.Type() != s.sectiontype {
			continue
		}
		if s.Scope != nil && !s.Scope(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkScope applies the same filters to a requested name that iteration
// applies to existing ones: Scope first, then Valid.
func (s *TypedSection) checkScope(name string) bool {
	if name == "" {
		return false
	}
	if s.Scope != nil && !s.Scope(name) {
		return false
	}
	if s.Valid != nil && !s.Valid(name) {
		return false
	}
	return true
}

// Parse honors create and remove requests, then runs the per-instance
// pipeline over every matching instance, freshly created ones included.
func (s *TypedSection) Parse(form Form) error {
	s.ErrInvalid = false
	if s.AddRemove {
		if err := s.parseCreate(form); err != nil {
			return err
		}
		if err := s.parseRemove(form); err != nil {
			return err
		}
	}
	for _, name := range s.UCISections() {
		if err := s.parseInstance(name, form); err != nil {
			return err
		}
	}
	return nil
}

func (s *TypedSection) parseCreate(form Form) error {
	name, ok := form.Lookup("cbi.cts." + s.m.Config + "." + s.sectiontype)
	if !ok || name == "" {
		return nil
	}
	if s.Anonymous {
		generated, err := s.m.AddSection(s.sectiontype)
		if err != nil {
			return err
		}
		return s.writeDefaults(generated)
	}
	if _, exists := s.m.GetAll(name); exists {
		// create is idempotent: an existing instance is left alone
		return nil
	}
	if !s.checkScope(name) {
		s.ErrInvalid = true
		return nil
	}
	if !validSectionName(name) {
		return nil
	}
	if err := s.m.CreateSection(name, s.sectiontype); err != nil {
		return err
	}
	return s.writeDefaults(name)
}

// parseRemove deletes every requested instance that exists with this type
// and passes the filters. Names failing the filters are skipped without
// raising ErrInvalid; removal stays quieter than creation.
func (s *TypedSection) parseRemove(form Form) error {
	requested := form.Prefixed("cbi.rts." + s.m.Config)
	names := make([]string, 0, len(requested))
	for name := range requested {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		opts, exists := s.m.GetAll(name)
		if !exists || opts.Type() != s.sectiontype {
			continue
		}
		if !s.checkScope(name) {
			continue
		}
		if err := s.m.DelSection(name); err != nil {
			return err
		}
	}
	return nil
}

// Render draws one frame call without a section name, then every instance
// followed by its fields.
func (s *TypedSection) Render(r Renderer) error {
	if err := r.Render(s.Template, Context{Map: s.m, Node: s}); err != nil {
		return err
	}
	for _, name := range s.UCISections() {
		if err := r.Render(s.Template, Context{Map: s.m, Node: s, Section: name}); err != nil {
			return err
		}
		for _, f := range s.fields {
			if err := f.Render(r, name); err != nil {
				return err
			}
		}
	}
	return nil
}
