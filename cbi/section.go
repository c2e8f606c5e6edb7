package cbi

import (
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-errors"
)

// FieldKind names the leaf kinds for loaders that construct fields from
// strings instead of the typed factories.
type FieldKind string

const (
	KindValue FieldKind = "value"
	KindFlag  FieldKind = "flag"
	KindList  FieldKind = "list"
	KindMulti FieldKind = "multi"
)

func (k FieldKind) String() string {
	return string(k)
}

func (k FieldKind) Valid() error {
	switch k {
	case KindValue, KindFlag, KindList, KindMulti:
		return nil
	default:
		return errors.New("invalid field kind", errors.CategoryValidation).
			WithTextCode("INVALID_FIELD_KIND").
			WithMetadata(map[string]any{
				"kind": string(k),
				"valid_kinds": []string{
					string(KindValue),
					string(KindFlag),
					string(KindList),
					string(KindMulti),
				},
			})
	}
}

var sectionNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func validSectionName(name string) bool {
	return sectionNameRe.MatchString(name)
}

// section is the behavior shared by both section kinds: field ownership,
// the optional-field offer list and dynamic discovery of unmodeled options.
type section struct {
	Node
	m           *Map
	sectiontype string

	// AddRemove lets submissions create and delete instances, Optional
	// offers absent declared fields for on-demand addition, Dynamic turns
	// unmodeled option keys into ad-hoc fields.
	AddRemove bool
	Optional  bool
	Dynamic   bool

	fields    []Field
	optionals map[string][]Field
}

func (s *section) isSection() {}

// SectionType returns the store type tag this section binds.
func (s *section) SectionType() string {
	return s.sectiontype
}

// Fields returns the field children in declaration order, dynamic ones
// included.
func (s *section) Fields() []Field {
	return s.fields
}

// Optionals returns the declared fields of one section instance that are
// absent and eligible for on-demand addition, as collected by the last
// parse cycle.
func (s *section) Optionals(name string) []Field {
	return s.optionals[name]
}

// Value appends a scalar field.
func (s *section) Value(option string, text ...string) *Value {
	v := &Value{field: s.newField(TemplateValue, option, text...)}
	v.field.validate = v.check
	s.fields = append(s.fields, v)
	return v
}

// Flag appends a boolean field stored as one of two literals.
func (s *section) Flag(option string, text ...string) *Flag {
	g := &Flag{
		field:    s.newField(TemplateFlag, option, text...),
		Enabled:  "1",
		Disabled: "0",
	}
	s.fields = append(s.fields, g)
	return g
}

// ListValue appends a single-choice field over registered keys.
func (s *section) ListValue(option string, text ...string) *ListValue {
	l := &ListValue{field: s.newField(TemplateListValue, option, text...)}
	l.field.validate = l.check
	s.fields = append(s.fields, l)
	return l
}

// MultiValue appends a multiple-choice field stored delimiter-joined.
func (s *section) MultiValue(option string, text ...string) *MultiValue {
	mv := &MultiValue{
		field:     s.newField(TemplateMultiValue, option, text...),
		Delimiter: " ",
	}
	mv.field.validate = mv.check
	s.fields = append(s.fields, mv)
	return mv
}

// Option constructs a field by kind name, the dynamic counterpart of the
// typed factories used by script loaders.
func (s *section) Option(kind FieldKind, option string, text ...string) (Field, error) {
	if err := kind.Valid(); err != nil {
		return nil, err
	}
	switch kind {
	case KindFlag:
		return s.Flag(option, text...), nil
	case KindList:
		return s.ListValue(option, text...), nil
	case KindMulti:
		return s.MultiValue(option, text...), nil
	default:
		return s.Value(option, text...), nil
	}
}

// AddDynamic appends an ad-hoc scalar field for an unmodeled option.
func (s *section) AddDynamic(option string, optional bool) *Value {
	v := s.Value(option, option)
	v.Optional = optional
	return v
}

func (s *section) newField(template, option string, text ...string) field {
	return field{
		Node:   newNode(template, text...),
		m:      s.m,
		option: option,
	}
}

func (s *section) declared(option string) bool {
	for _, f := range s.fields {
		if f.OptionName() == option {
			return true
		}
	}
	return false
}

// parseInstance runs the per-instance pipeline: discover dynamic fields,
// parse every field, then collect the optional offers.
func (s *section) parseInstance(name string, form Form) error {
	s.parseDynamic(name, form)
	for _, f := range s.fields {
		if err := f.Parse(name, form); err != nil {
			return err
		}
	}
	return s.parseOptionals(name, form)
}

// parseDynamic turns every unmodeled key, from the snapshot or from the
// bulk submission, into an ad-hoc optional field. Reserved dot-prefixed
// keys stay invisible.
func (s *section) parseDynamic(name string, form Form) {
	if !s.Dynamic {
		return
	}
	keys := map[string]bool{}
	if opts, ok := s.m.GetAll(name); ok {
		for key := range opts {
			keys[key] = true
		}
	}
	for key := range form.Prefixed("cbid." + s.m.Config + "." + name) {
		keys[key] = true
	}
	ordered := make([]string, 0, len(keys))
	for key := range keys {
		ordered = append(ordered, key)
	}
	sort.Strings(ordered)
	for _, key := range ordered {
		if strings.HasPrefix(key, ".") || s.declared(key) {
			continue
		}
		s.AddDynamic(key, true)
	}
}

// parseOptionals collects the absent optional fields of one instance. A
// field named by the add request gets its default written instead of being
// offered; a leftover request names an unmodeled field and, with Dynamic
// set, becomes one.
func (s *section) parseOptionals(name string, form Form) error {
	if !s.Optional {
		return nil
	}
	if s.optionals == nil {
		s.optionals = map[string][]Field{}
	}
	s.optionals[name] = nil

	requested, _ := form.Lookup("cbi.opt." + s.m.Config + "." + name)
	for _, f := range s.fields {
		if !f.IsOptional() {
			continue
		}
		if _, present := f.ConfigValue(name); present {
			continue
		}
		if requested == f.OptionName() {
			requested = ""
			if err := s.m.Set(name, f.OptionName(), f.DefaultValue()); err != nil {
				return err
			}
			continue
		}
		s.optionals[name] = append(s.optionals[name], f)
	}

	if requested != "" && s.Dynamic {
		s.AddDynamic(requested, false)
	}
	return nil
}

// writeDefaults seeds a freshly created instance with every field's
// non-empty default.
func (s *section) writeDefaults(name string) error {
	for _, f := range s.fields {
		if f.DefaultValue() == "" {
			continue
		}
		if err := s.m.Set(name, f.OptionName(), f.DefaultValue()); err != nil {
			return err
		}
	}
	return nil
}
