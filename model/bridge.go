package model

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/goliatone/go-cbi/cbi"
	"github.com/goliatone/go-cbi/uci"
)

// bridge injects the model-building surface into one interpreter: a Map
// constructor global plus metatables exposing the section and field
// factories as methods and the exported struct fields as lua attributes.
type bridge struct {
	L     *lua.LState
	store uci.Store

	mapMT     *lua.LTable
	sectionMT *lua.LTable
	fieldMT   *lua.LTable
}

func installBridge(L *lua.LState, store uci.Store) {
	b := &bridge{L: L, store: store}

	b.mapMT = b.metatable(map[string]lua.LGFunction{
		"named_section": b.namedSection,
		"typed_section": b.typedSection,
	}, b.setMapAttr)

	b.sectionMT = b.metatable(map[string]lua.LGFunction{
		"option": b.option,
	}, b.setSectionAttr)

	b.fieldMT = b.metatable(map[string]lua.LGFunction{
		"value": b.choice,
	}, b.setFieldAttr)

	L.SetGlobal("Map", L.NewFunction(b.newMap))
}

func (b *bridge) metatable(methods map[string]lua.LGFunction, newindex lua.LGFunction) *lua.LTable {
	mt := b.L.NewTable()
	b.L.SetField(mt, "__index", b.L.SetFuncs(b.L.NewTable(), methods))
	b.L.SetField(mt, "__newindex", b.L.NewFunction(newindex))
	return mt
}

func (b *bridge) wrap(v any, mt *lua.LTable) *lua.LUserData {
	ud := b.L.NewUserData()
	ud.Value = v
	b.L.SetMetatable(ud, mt)
	return ud
}

// Map(config [, title [, description]]) roots a binding tree over the
// loader's store.
func (b *bridge) newMap(L *lua.LState) int {
	config := L.CheckString(1)
	m, err := cbi.NewMap(b.store, config, textArgs(L, 2)...)
	if err != nil {
		L.RaiseError("Map(%q): %v", config, err)
		return 0
	}
	L.Push(b.wrap(m, b.mapMT))
	return 1
}

// m:named_section(name, type [, title [, description]])
func (b *bridge) namedSection(L *lua.LState) int {
	m := b.checkMap(L, 1)
	name := L.CheckString(2)
	sectiontype := L.CheckString(3)
	L.Push(b.wrap(m.NamedSection(name, sectiontype, textArgs(L, 4)...), b.sectionMT))
	return 1
}

// m:typed_section(type [, title [, description]])
func (b *bridge) typedSection(L *lua.LState) int {
	m := b.checkMap(L, 1)
	sectiontype := L.CheckString(2)
	L.Push(b.wrap(m.TypedSection(sectiontype, textArgs(L, 3)...), b.sectionMT))
	return 1
}

// s:option(kind, name [, title [, description]]) appends a field; kind is
// one of the cbi.FieldKind names.
func (b *bridge) option(L *lua.LState) int {
	ud := L.CheckUserData(1)
	kind := cbi.FieldKind(L.CheckString(2))
	name := L.CheckString(3)
	text := textArgs(L, 4)

	var (
		f   cbi.Field
		err error
	)
	switch s := ud.Value.(type) {
	case *cbi.NamedSection:
		f, err = s.Option(kind, name, text...)
	case *cbi.TypedSection:
		f, err = s.Option(kind, name, text...)
	default:
		L.ArgError(1, "section expected")
		return 0
	}
	if err != nil {
		L.RaiseError("option %q: unknown kind %q (want value, flag, list or multi)", name, string(kind))
		return 0
	}
	L.Push(b.wrap(f, b.fieldMT))
	return 1
}

// o:value(key [, label]) registers a selectable choice on list and multi
// fields and returns the field for chaining.
func (b *bridge) choice(L *lua.LState) int {
	ud := L.CheckUserData(1)
	key := L.CheckString(2)
	var label []string
	if L.GetTop() >= 3 {
		label = []string{L.CheckString(3)}
	}
	switch f := ud.Value.(type) {
	case *cbi.ListValue:
		f.Value(key, label...)
	case *cbi.MultiValue:
		f.Value(key, label...)
	default:
		L.RaiseError("value(%q): only list and multi options take choices", key)
		return 0
	}
	L.Push(ud)
	return 1
}

func (b *bridge) checkMap(L *lua.LState, n int) *cbi.Map {
	ud := L.CheckUserData(n)
	if m, ok := ud.Value.(*cbi.Map); ok {
		return m
	}
	L.ArgError(n, "map expected")
	return nil
}

func (b *bridge) setMapAttr(L *lua.LState) int {
	m := b.checkMap(L, 1)
	key := L.CheckString(2)
	v := L.Get(3)

	switch key {
	case "title":
		m.Title = attrString(L, v, key)
	case "description":
		m.Description = attrString(L, v, key)
	default:
		L.RaiseError("unknown map attribute %q", key)
	}
	return 0
}

func (b *bridge) setSectionAttr(L *lua.LState) int {
	ud := L.CheckUserData(1)
	key := L.CheckString(2)
	v := L.Get(3)

	var (
		node      *cbi.Node
		addremove *bool
		optional  *bool
		dynamic   *bool
	)
	switch s := ud.Value.(type) {
	case *cbi.NamedSection:
		node, addremove, optional, dynamic = &s.Node, &s.AddRemove, &s.Optional, &s.Dynamic
	case *cbi.TypedSection:
		switch key {
		case "anonymous":
			s.Anonymous = attrBool(L, v, key)
			return 0
		case "scope":
			s.Scope = b.nameFilter(L, v, key)
			return 0
		case "valid":
			s.Valid = b.nameFilter(L, v, key)
			return 0
		}
		node, addremove, optional, dynamic = &s.Node, &s.AddRemove, &s.Optional, &s.Dynamic
	default:
		L.ArgError(1, "section expected")
		return 0
	}

	switch key {
	case "addremove":
		*addremove = attrBool(L, v, key)
	case "optional":
		*optional = attrBool(L, v, key)
	case "dynamic":
		*dynamic = attrBool(L, v, key)
	case "title":
		node.Title = attrString(L, v, key)
	case "description":
		node.Description = attrString(L, v, key)
	default:
		L.RaiseError("unknown section attribute %q", key)
	}
	return 0
}

func (b *bridge) setFieldAttr(L *lua.LState) int {
	ud := L.CheckUserData(1)
	key := L.CheckString(2)
	v := L.Get(3)

	var (
		node     *cbi.Node
		def      *string
		rmempty  *bool
		optional *bool
		valid    *cbi.ValidateFunc
	)
	switch f := ud.Value.(type) {
	case *cbi.Value:
		switch key {
		case "maxlength":
			f.MaxLength = attrInt(L, v, key)
			return 0
		case "numeric":
			f.Numeric = attrBool(L, v, key)
			return 0
		case "integer":
			f.IntegerOnly = attrBool(L, v, key)
			return 0
		}
		node, def, rmempty, optional, valid = &f.Node, &f.Default, &f.RMEmpty, &f.Optional, &f.Valid
	case *cbi.Flag:
		switch key {
		case "enabled":
			f.Enabled = attrString(L, v, key)
			return 0
		case "disabled":
			f.Disabled = attrString(L, v, key)
			return 0
		}
		node, def, rmempty, optional, valid = &f.Node, &f.Default, &f.RMEmpty, &f.Optional, &f.Valid
	case *cbi.ListValue:
		node, def, rmempty, optional, valid = &f.Node, &f.Default, &f.RMEmpty, &f.Optional, &f.Valid
	case *cbi.MultiValue:
		if key == "delimiter" {
			f.Delimiter = attrString(L, v, key)
			return 0
		}
		node, def, rmempty, optional, valid = &f.Node, &f.Default, &f.RMEmpty, &f.Optional, &f.Valid
	default:
		L.ArgError(1, "option expected")
		return 0
	}

	switch key {
	case "default":
		*def = attrString(L, v, key)
	case "rmempty":
		*rmempty = attrBool(L, v, key)
	case "optional":
		*optional = attrBool(L, v, key)
	case "valid":
		*valid = cbi.Matches(attrString(L, v, key))
	case "expr":
		*valid = cbi.Expression(attrString(L, v, key))
	case "title":
		node.Title = attrString(L, v, key)
	case "description":
		node.Description = attrString(L, v, key)
	default:
		L.RaiseError("unknown option attribute %q", key)
	}
	return 0
}

// nameFilter turns an attribute value into a cbi.NameFilter: a string is a
// name pattern, a table is an explicit allow list.
func (b *bridge) nameFilter(L *lua.LState, v lua.LValue, key string) cbi.NameFilter {
	switch fv := v.(type) {
	case lua.LString:
		return cbi.MatchesName(string(fv))
	case *lua.LTable:
		var names []string
		fv.ForEach(func(_, item lua.LValue) {
			names = append(names, item.String())
		})
		return cbi.ScopeNames(names...)
	}
	L.RaiseError("attribute %q expects a pattern string or a table of names", key)
	return nil
}

// textArgs collects the optional trailing title and description arguments.
func textArgs(L *lua.LState, from int) []string {
	var text []string
	for i := from; i <= L.GetTop() && i < from+2; i++ {
		text = append(text, L.CheckString(i))
	}
	return text
}

func attrString(L *lua.LState, v lua.LValue, key string) string {
	switch s := v.(type) {
	case lua.LString:
		return string(s)
	case lua.LNumber:
		return s.String()
	}
	L.RaiseError("attribute %q expects a string, got %s", key, v.Type())
	return ""
}

func attrBool(L *lua.LState, v lua.LValue, key string) bool {
	if bv, ok := v.(lua.LBool); ok {
		return bool(bv)
	}
	L.RaiseError("attribute %q expects a boolean, got %s", key, v.Type())
	return false
}

func attrInt(L *lua.LState, v lua.LValue, key string) int {
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	L.RaiseError("attribute %q expects a number, got %s", key, v.Type())
	return 0
}
