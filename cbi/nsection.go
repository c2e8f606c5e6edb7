package cbi

// NamedSection binds one fixed section name. Existence is binary: the
// instance is present in the snapshot or it is not.
type NamedSection struct {
	section
	name string
}

// Name returns the bound section name.
func (s *NamedSection) Name() string {
	return s.name
}

// Parse honors a remove request when present, a create request when absent
// (writing the type and every field default), then binds fields if the
// instance exists. A create request for an invalid name is not honored; the
// instance simply stays absent and field parsing is skipped.
func (s *NamedSection) Parse(form Form) error {
	present := s.exists()

	if s.AddRemove {
		path := s.m.Config + "." + s.name
		if present {
			if _, ok := form.Lookup("cbi.rns." + path); ok {
				return s.m.DelSection(s.name)
			}
		} else if _, ok := form.Lookup("cbi.cns." + path); ok {
			if err := s.create(); err != nil {
				return err
			}
		}
	}

	if !s.exists() {
		return nil
	}
	return s.parseInstance(s.name, form)
}

func (s *NamedSection) exists() bool {
	_, ok := s.m.data[s.name]
	return ok
}

func (s *NamedSection) create() error {
	if !validSectionName(s.name) {
		return nil
	}
	if err := s.m.CreateSection(s.name, s.sectiontype); err != nil {
		return err
	}
	return s.writeDefaults(s.name)
}

// Render draws the section frame, then the fields when the instance
// exists. The frame call always carries the bound name; renderers read
// presence from the snapshot.
func (s *NamedSection) Render(r Renderer) error {
	if err := r.Render(s.Template, Context{Map: s.m, Node: s, Section: s.name}); err != nil {
		return err
	}
	if !s.exists() {
		return nil
	}
	for _, f := range s.fields {
		if err := f.Render(r, s.name); err != nil {
			return err
		}
	}
	return nil
}
