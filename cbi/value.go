package cbi

// field is the behavior shared by every leaf kind: the option binding, the
// attribute set and the parse state machine. Per-instance validation
// failures live in invalid for one cycle.
type field struct {
	Node
	m      *Map
	option string

	// Default seeds freshly created instances and on-demand optional
	// additions. RMEmpty removes the option on an empty submission instead
	// of marking it invalid; Optional hides the field until present and
	// also permits removal. Valid is the caller-supplied filter applied
	// after the kind's own checks.
	Default  string
	RMEmpty  bool
	Optional bool
	Valid    ValidateFunc

	invalid  map[string]bool
	validate func(raw string) (string, error)
}

func (f *field) isField() {}

// OptionName returns the bound option name.
func (f *field) OptionName() string {
	return f.option
}

func (f *field) IsOptional() bool {
	return f.Optional
}

func (f *field) DefaultValue() string {
	return f.Default
}

// ConfigValue reads the option's current value from the snapshot.
func (f *field) ConfigValue(section string) (string, bool) {
	return f.m.Get(section, f.option)
}

// Invalid reports whether the last parse marked this field invalid for the
// given section instance.
func (f *field) Invalid(section string) bool {
	return f.invalid[section]
}

func (f *field) markInvalid(section string) {
	if f.invalid == nil {
		f.invalid = map[string]bool{}
	}
	f.invalid[section] = true
}

func (f *field) formValue(section string, form Form) (string, bool) {
	return form.Lookup("cbid." + f.m.Config + "." + section + "." + f.option)
}

func (f *field) write(section, value string) error {
	return f.m.Set(section, f.option, value)
}

func (f *field) remove(section string) error {
	return f.m.Del(section, f.option)
}

func (f *field) runValidate(raw string) (string, error) {
	if f.validate != nil {
		return f.validate(raw)
	}
	return f.applyValid(raw)
}

func (f *field) applyValid(raw string) (string, error) {
	if f.Valid != nil {
		return f.Valid(raw)
	}
	return raw, nil
}

// Parse runs the per-instance state machine.
//
// A non-empty submission is validated: invalid input marks the instance and
// writes nothing; valid input is written only when it differs from the
// stored value. A validated-empty result (a MultiValue with no surviving
// token) and an empty or missing submission on a submitted form both fall
// through to the removal policy: remove when RMEmpty or Optional allows it,
// mark invalid otherwise. Without a submit action a missing submission is a
// no-op.
func (f *field) Parse(section string, form Form) error {
	delete(f.invalid, section)

	raw, ok := f.formValue(section, form)
	if ok && raw != "" {
		validated, err := f.runValidate(raw)
		if err != nil {
			f.markInvalid(section)
			return nil
		}
		if validated == "" {
			return f.parseEmpty(section)
		}
		if current, _ := f.ConfigValue(section); current != validated {
			return f.write(section, validated)
		}
		return nil
	}
	if form.Submitted() {
		return f.parseEmpty(section)
	}
	return nil
}

func (f *field) parseEmpty(section string) error {
	if f.RMEmpty || f.Optional {
		return f.remove(section)
	}
	f.markInvalid(section)
	return nil
}

// renderWith draws the concrete node unless it is an absent optional
// field; those are offered through the owning section's optionals instead.
func (f *field) renderWith(node any, r Renderer, section string) error {
	if f.Optional {
		if _, present := f.ConfigValue(section); !present {
			return nil
		}
	}
	return r.Render(f.Template, Context{Map: f.m, Node: node, Section: section})
}
