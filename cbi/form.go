package cbi

import (
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Form key conventions. config is the config name, sec a section name, opt
// an option name and type a section type:
//
//	cbid.<config>.<sec>.<opt>  bound value for one option
//	cbid.<config>.<sec>        bulk submission (dynamic discovery, via Prefixed)
//	cbi.opt.<config>.<sec>     request to add an optional field
//	cbi.rns.<config>.<sec>     request to remove a NamedSection instance
//	cbi.cns.<config>.<sec>     request to create a NamedSection instance
//	cbi.cts.<config>.<type>    request to create a TypedSection instance
//	cbi.rts.<config>           removal set for TypedSection (via Prefixed)
//	cbi.submit                 explicit submit indicator
const submitKey = "cbi.submit"

// Form supplies submitted values by key.
type Form interface {
	// Lookup returns the value submitted under one exact key. Repeated
	// submissions of the same key join with newlines.
	Lookup(key string) (string, bool)

	// Prefixed returns suffix → value for every key starting prefix + ".".
	Prefixed(prefix string) map[string]string

	// Submitted reports an explicit submit action.
	Submitted() bool
}

// FormValues adapts url.Values, the shape http.Request.Form arrives in.
func FormValues(v url.Values) Form {
	return urlValuesForm{v: v}
}

type urlValuesForm struct {
	v url.Values
}

func (f urlValuesForm) Lookup(key string) (string, bool) {
	vs, ok := f.v[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.Join(vs, "\n"), true
}

func (f urlValuesForm) Prefixed(prefix string) map[string]string {
	out := map[string]string{}
	p := prefix + "."
	for key := range f.v {
		if !strings.HasPrefix(key, p) || len(key) == len(p) {
			continue
		}
		if value, ok := f.Lookup(key); ok {
			out[key[len(p):]] = value
		}
	}
	return out
}

func (f urlValuesForm) Submitted() bool {
	_, ok := f.Lookup(submitKey)
	return ok
}

// FormMap adapts a flat key → value map, handy for tests and programmatic
// parse cycles.
func FormMap(values map[string]string) Form {
	return mapForm{v: values}
}

type mapForm struct {
	v map[string]string
}

func (f mapForm) Lookup(key string) (string, bool) {
	value, ok := f.v[key]
	return value, ok
}

func (f mapForm) Prefixed(prefix string) map[string]string {
	out := map[string]string{}
	p := prefix + "."
	for key, value := range f.v {
		if strings.HasPrefix(key, p) && len(key) > len(p) {
			out[key[len(p):]] = value
		}
	}
	return out
}

func (f mapForm) Submitted() bool {
	_, ok := f.v[submitKey]
	return ok
}

// JSONForm adapts a nested JSON document whose structure mirrors the key
// convention, dots becoming object levels:
//
//	{"cbid": {"network": {"lan": {"proto": "dhcp"}}}, "cbi": {"submit": "1"}}
//
// Array values join with newlines, matching repeated form fields.
func JSONForm(data []byte) Form {
	return jsonForm{data: data}
}

type jsonForm struct {
	data []byte
}

func (f jsonForm) Lookup(key string) (string, bool) {
	res := gjson.GetBytes(f.data, key)
	if !res.Exists() {
		return "", false
	}
	if res.IsArray() {
		var parts []string
		res.ForEach(func(_, v gjson.Result) bool {
			parts = append(parts, v.String())
			return true
		})
		return strings.Join(parts, "\n"), true
	}
	return res.String(), true
}

func (f jsonForm) Prefixed(prefix string) map[string]string {
	out := map[string]string{}
	res := gjson.GetBytes(f.data, prefix)
	if !res.IsObject() {
		return out
	}
	res.ForEach(func(k, v gjson.Result) bool {
		if v.IsObject() {
			return true
		}
		if v.IsArray() {
			var parts []string
			v.ForEach(func(_, e gjson.Result) bool {
				parts = append(parts, e.String())
				return true
			})
			out[k.String()] = strings.Join(parts, "\n")
			return true
		}
		out[k.String()] = v.String()
		return true
	})
	return out
}

func (f jsonForm) Submitted() bool {
	return gjson.GetBytes(f.data, submitKey).Exists()
}
