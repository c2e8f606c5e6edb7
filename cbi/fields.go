package cbi

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-errors"
)

// Value binds a scalar string option. MaxLength bounds the submitted
// length in bytes (0 means unbounded); Numeric and IntegerOnly add numeric
// constraints on top.
type Value struct {
	field

	MaxLength   int
	Numeric     bool
	IntegerOnly bool
}

func (v *Value) check(raw string) (string, error) {
	if v.MaxLength > 0 && len(raw) > v.MaxLength {
		return "", errors.New("value exceeds maximum length", errors.CategoryValidation).
			WithTextCode("VALUE_TOO_LONG").
			WithMetadata(map[string]any{
				"option":    v.option,
				"maxlength": v.MaxLength,
			})
	}
	if v.Numeric || v.IntegerOnly {
		if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return "", errors.Wrap(err, errors.CategoryValidation, "value is not a number").
				WithTextCode("NOT_A_NUMBER").
				WithMetadata(map[string]any{"option": v.option})
		}
	}
	if v.IntegerOnly {
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return "", errors.Wrap(err, errors.CategoryValidation, "value is not an integer").
				WithTextCode("NOT_AN_INTEGER").
				WithMetadata(map[string]any{"option": v.option})
		}
	}
	return v.applyValid(raw)
}

func (v *Value) Render(r Renderer, section string) error {
	return v.renderWith(v, r, section)
}

// Flag binds a boolean option materialized as one of two literals, "1" and
// "0" unless reconfigured.
type Flag struct {
	field

	Enabled  string
	Disabled string
}

// Parse ignores the submitted content: presence means enabled, absence on a
// submitted form means disabled. The disabled literal is still written for
// a mandatory flag; only Optional or RMEmpty permit removing the option
// instead.
func (g *Flag) Parse(section string, form Form) error {
	_, present := g.formValue(section, form)
	if !present && !form.Submitted() {
		return nil
	}
	value := g.Disabled
	if present {
		value = g.Enabled
	}
	if value == g.Enabled || (!g.Optional && !g.RMEmpty) {
		if current, _ := g.ConfigValue(section); current != value {
			return g.write(section, value)
		}
		return nil
	}
	return g.remove(section)
}

func (g *Flag) Render(r Renderer, section string) error {
	return g.renderWith(g, r, section)
}

// IsEnabled reports whether the stored value equals the enabled literal.
func (g *Flag) IsEnabled(section string) bool {
	current, ok := g.ConfigValue(section)
	return ok && current == g.Enabled
}

// ListValue binds a single choice from an ordered set of registered keys.
type ListValue struct {
	field

	keys   []string
	labels []string
}

// Value registers one selectable key with an optional display label.
func (l *ListValue) Value(key string, label ...string) *ListValue {
	l.keys = append(l.keys, key)
	if len(label) > 0 {
		l.labels = append(l.labels, label[0])
	} else {
		l.labels = append(l.labels, key)
	}
	return l
}

// Keys returns the registered keys in registration order.
func (l *ListValue) Keys() []string {
	return l.keys
}

// Labels returns the display labels aligned with Keys.
func (l *ListValue) Labels() []string {
	return l.labels
}

func (l *ListValue) check(raw string) (string, error) {
	for _, key := range l.keys {
		if key == raw {
			return raw, nil
		}
	}
	return "", errors.New("value is not a registered choice", errors.CategoryValidation).
		WithTextCode("UNKNOWN_CHOICE").
		WithMetadata(map[string]any{"option": l.option, "value": raw})
}

func (l *ListValue) Render(r Renderer, section string) error {
	return l.renderWith(l, r, section)
}

// MultiValue binds a subset of registered keys, stored joined by Delimiter.
// Submitted input is newline-separated, the shape repeated form fields
// collapse into.
type MultiValue struct {
	field

	Delimiter string

	keys   []string
	labels []string
}

// Value registers one selectable key with an optional display label.
func (mv *MultiValue) Value(key string, label ...string) *MultiValue {
	mv.keys = append(mv.keys, key)
	if len(label) > 0 {
		mv.labels = append(mv.labels, label[0])
	} else {
		mv.labels = append(mv.labels, key)
	}
	return mv
}

func (mv *MultiValue) Keys() []string {
	return mv.keys
}

func (mv *MultiValue) Labels() []string {
	return mv.labels
}

// ValueList splits the stored value back into its chosen keys.
func (mv *MultiValue) ValueList(section string) []string {
	current, ok := mv.ConfigValue(section)
	if !ok || current == "" {
		return nil
	}
	return strings.Split(current, mv.Delimiter)
}

// check keeps the registered tokens and joins them with Delimiter. No
// surviving token yields an empty result, which the state machine routes
// to the removal policy rather than writing a partial value.
func (mv *MultiValue) check(raw string) (string, error) {
	var kept []string
	for _, token := range strings.Split(raw, "\n") {
		if token == "" {
			continue
		}
		if mv.registered(token) {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, mv.Delimiter), nil
}

func (mv *MultiValue) registered(token string) bool {
	for _, key := range mv.keys {
		if key == token {
			return true
		}
	}
	return false
}

func (mv *MultiValue) Render(r Renderer, section string) error {
	return mv.renderWith(mv, r, section)
}
