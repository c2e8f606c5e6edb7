package uci

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-errors"
)

// ParseText reads the native config/option/list syntax into a namespace.
// Anonymous sections receive generated cfg%06x names in encounter order.
// Repeated list lines join into one space-delimited option value. Comment
// and package lines are skipped.
func ParseText(data []byte) (Namespace, error) {
	ns := Namespace{}
	var current Options
	anon := 0

	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, rest, ok := token(line)
		if !ok {
			return nil, syntaxError("unterminated quote", i)
		}
		switch word {
		case "package":
			continue
		case "config":
			sectiontype, rest, ok := token(rest)
			if !ok || sectiontype == "" {
				return nil, syntaxError("config line requires a section type", i)
			}
			name, _, ok := token(rest)
			if !ok {
				return nil, syntaxError("unterminated quote", i)
			}
			if name == "" {
				name = fmt.Sprintf("cfg%06x", anon)
				anon++
				current = Options{TypeKey: sectiontype, AnonymousKey: "1"}
			} else {
				current = Options{TypeKey: sectiontype}
			}
			ns[name] = current
		case "option", "list":
			if current == nil {
				return nil, syntaxError(word+" outside of a config section", i)
			}
			key, rest, ok := token(rest)
			if !ok || key == "" {
				return nil, syntaxError(word+" line requires a name", i)
			}
			value, _, ok := token(rest)
			if !ok {
				return nil, syntaxError("unterminated quote", i)
			}
			if word == "list" && current[key] != "" {
				current[key] = current[key] + " " + value
			} else {
				current[key] = value
			}
		default:
			return nil, syntaxError("unknown keyword "+word, i)
		}
	}
	return ns, nil
}

func syntaxError(msg string, line int) error {
	return errors.New(msg, errors.CategoryBadInput).
		WithTextCode("UCI_SYNTAX").
		WithMetadata(map[string]any{"line": line + 1})
}

// token scans one bare or quoted word. Quoted words may span spaces and
// contain backslash-escaped quotes. ok is false on an unterminated quote.
func token(s string) (tok, rest string, ok bool) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", "", true
	}
	if q := s[0]; q == '\'' || q == '"' {
		var b strings.Builder
		for i := 1; i < len(s); i++ {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				b.WriteByte(s[i+1])
				i++
				continue
			}
			if c == q {
				return b.String(), s[i+1:], true
			}
			b.WriteByte(c)
		}
		return "", "", false
	}
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", true
}

// FormatText renders a namespace in the native syntax: sections sorted by
// name, options sorted by key, reserved keys folded into the config line.
// Anonymous sections drop their generated name; sections without a type are
// skipped.
func FormatText(ns Namespace) []byte {
	var b strings.Builder
	first := true
	for _, name := range ns.Names() {
		opts := ns[name]
		if opts.Type() == "" {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		if opts.Anonymous() {
			fmt.Fprintf(&b, "config %s\n", opts.Type())
		} else {
			fmt.Fprintf(&b, "config %s '%s'\n", opts.Type(), name)
		}
		for _, key := range optionKeys(opts) {
			fmt.Fprintf(&b, "\toption %s '%s'\n", key, escapeValue(opts[key]))
		}
	}
	return []byte(b.String())
}

func optionKeys(o Options) []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		if strings.HasPrefix(k, ".") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func escapeValue(v string) string {
	return strings.ReplaceAll(v, "'", "\\'")
}
