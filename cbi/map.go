package cbi

import (
	"github.com/goliatone/go-errors"
	"github.com/mitchellh/copystructure"

	"github.com/goliatone/go-cbi/logger"
	"github.com/goliatone/go-cbi/uci"
)

// Map roots the binding tree for one config. It owns the store session and
// a snapshot of the config's contents: reads are answered from the
// snapshot, every mutation goes through the store first and updates the
// snapshot only on success, so the snapshot always reflects what the store
// holds.
type Map struct {
	Node
	Config string
	Logger logger.Logger

	store    uci.Store
	data     uci.Namespace
	sections []Section
}

// NewMap reads the config's current contents from the store and roots a
// tree over them. text is title and description for renderers.
func NewMap(store uci.Store, config string, text ...string) (*Map, error) {
	if store == nil {
		return nil, errors.New("store is required", errors.CategoryBadInput).
			WithTextCode("STORE_REQUIRED")
	}
	if config == "" {
		return nil, errors.New("config name is required", errors.CategoryBadInput).
			WithTextCode("CONFIG_NAME_REQUIRED")
	}
	data, err := store.Show(config)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read config from store").
			WithTextCode("STORE_READ_FAILED").
			WithMetadata(map[string]any{"config": config})
	}
	if data == nil {
		data = uci.Namespace{}
	}
	return &Map{
		Node:   newNode(TemplateMap, text...),
		Config: config,
		Logger: logger.NewDefaultLogger("cbi"),
		store:  store,
		data:   data,
	}, nil
}

// NamedSection appends a section bound to one fixed name.
func (m *Map) NamedSection(name, sectiontype string, text ...string) *NamedSection {
	s := &NamedSection{
		section: section{
			Node:        newNode(TemplateNamedSection, text...),
			m:           m,
			sectiontype: sectiontype,
		},
		name: name,
	}
	m.sections = append(m.sections, s)
	return s
}

// TypedSection appends a section bound to every instance of sectiontype.
func (m *Map) TypedSection(sectiontype string, text ...string) *TypedSection {
	s := &TypedSection{
		section: section{
			Node:        newNode(TemplateTypedSection, text...),
			m:           m,
			sectiontype: sectiontype,
		},
	}
	m.sections = append(m.sections, s)
	return s
}

// Sections returns the section children in declaration order.
func (m *Map) Sections() []Section {
	return m.sections
}

// Get returns the cached value of one option. Reads never touch the store.
func (m *Map) Get(section, option string) (string, bool) {
	value, ok := m.data[section][option]
	return value, ok
}

// GetAll returns a copy of the cached options of one section.
func (m *Map) GetAll(section string) (uci.Options, bool) {
	opts, ok := m.data[section]
	if !ok {
		return nil, false
	}
	return opts.Clone(), true
}

// SectionNames returns the snapshot's section names in sorted order.
func (m *Map) SectionNames() []string {
	return m.data.Names()
}

// Set writes one option through the store and mirrors it in the snapshot.
// With an empty option it creates the section, value carrying the type.
func (m *Map) Set(section, option, value string) error {
	if option == "" {
		return m.CreateSection(section, value)
	}
	if err := m.store.Set(m.Config, section, option, value); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to write option").
			WithTextCode("STORE_WRITE_FAILED").
			WithMetadata(map[string]any{
				"config":  m.Config,
				"section": section,
				"option":  option,
			})
	}
	sec, ok := m.data[section]
	if !ok {
		sec = uci.Options{}
		m.data[section] = sec
	}
	sec[option] = value
	return nil
}

// CreateSection creates (or retypes) a named section.
func (m *Map) CreateSection(section, sectiontype string) error {
	if err := m.store.Set(m.Config, section, "", sectiontype); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to create section").
			WithTextCode("STORE_WRITE_FAILED").
			WithMetadata(map[string]any{
				"config":      m.Config,
				"section":     section,
				"sectiontype": sectiontype,
			})
	}
	if sec, ok := m.data[section]; ok {
		sec[uci.TypeKey] = sectiontype
	} else {
		m.data[section] = uci.Options{uci.TypeKey: sectiontype}
	}
	return nil
}

// AddSection creates one anonymous instance of sectiontype and returns the
// store-generated name.
func (m *Map) AddSection(sectiontype string) (string, error) {
	name, err := m.store.AddSection(m.Config, sectiontype)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryOperation, "failed to add section").
			WithTextCode("STORE_WRITE_FAILED").
			WithMetadata(map[string]any{
				"config":      m.Config,
				"sectiontype": sectiontype,
			})
	}
	m.data[name] = uci.Options{uci.TypeKey: sectiontype, uci.AnonymousKey: "1"}
	return name, nil
}

// Del removes one option through the store and from the snapshot.
func (m *Map) Del(section, option string) error {
	if err := m.store.Delete(m.Config, section, option); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to delete option").
			WithTextCode("STORE_DELETE_FAILED").
			WithMetadata(map[string]any{
				"config":  m.Config,
				"section": section,
				"option":  option,
			})
	}
	if sec, ok := m.data[section]; ok {
		delete(sec, option)
	}
	return nil
}

// DelSection removes a whole section through the store and from the
// snapshot.
func (m *Map) DelSection(section string) error {
	if err := m.store.DeleteSection(m.Config, section); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to delete section").
			WithTextCode("STORE_DELETE_FAILED").
			WithMetadata(map[string]any{
				"config":  m.Config,
				"section": section,
			})
	}
	delete(m.data, section)
	return nil
}

// Snapshot returns a deep copy of the cached namespace.
func (m *Map) Snapshot() uci.Namespace {
	cloned, err := copystructure.Copy(m.data)
	if err != nil {
		return m.data.Clone()
	}
	ns, ok := cloned.(uci.Namespace)
	if !ok {
		return m.data.Clone()
	}
	return ns
}

// Parse drives one submit cycle: every section honors its lifecycle
// requests, then binds, validates and writes its fields. Validation
// failures are recorded on the nodes; the first store failure aborts the
// walk and is returned.
func (m *Map) Parse(form Form) error {
	if form == nil {
		form = FormMap(nil)
	}
	m.Logger.Debug("parse cycle", "config", m.Config, "submitted", form.Submitted())
	for _, s := range m.sections {
		if err := s.Parse(form); err != nil {
			m.Logger.Error("parse aborted", "config", m.Config, "error", err)
			return err
		}
	}
	return nil
}

// Render walks the tree depth-first, drawing every node against the
// current snapshot.
func (m *Map) Render(r Renderer) error {
	if r == nil {
		return errors.New("renderer is required", errors.CategoryBadInput).
			WithTextCode("RENDERER_REQUIRED")
	}
	if err := r.Render(m.Template, Context{Map: m, Node: m}); err != nil {
		return err
	}
	for _, s := range m.sections {
		if err := s.Render(r); err != nil {
			return err
		}
	}
	return nil
}
