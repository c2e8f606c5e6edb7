// Package model loads binding trees from Lua scripts.
//
// A model script is the declarative face of the cbi package: it builds a
// cbi.Map through injected constructors and returns it, leaving parsing and
// rendering to the Go side. The loader binds a uci.Store; every loaded map
// reads and writes that store.
//
//	loader := model.New(store)
//	m, err := loader.LoadFile("models/network.lua")
//
// A minimal script:
//
//	local m = Map("network", "Network")
//	local s = m:named_section("lan", "interface", "LAN")
//	s.addremove = true
//	local o = s:option("value", "ipaddr", "IPv4 address")
//	o.default = "192.168.1.1"
//	return m
//
// Scripts run in a restricted interpreter: only the base, table, string and
// math libraries are open, and dofile, loadfile, load, loadstring and
// require are removed. The interpreter is closed before Load returns, so
// scripts configure structure only; scope and valid filters arrive as
// pattern strings or name tables rather than live functions.
//
// Surface:
//
//	Map(config [, title [, description]])         -> map
//	m:named_section(name, type [, title [, desc]]) -> section
//	m:typed_section(type [, title [, desc]])       -> section
//	s:option(kind, name [, title [, desc]])        -> option
//	o:value(key [, label])                         -> option (list/multi)
//
// Attribute assignment maps lua keys onto the exported struct fields:
// addremove, optional, dynamic, anonymous, scope, valid, title and
// description on sections; default, rmempty, optional, valid, expr,
// maxlength, numeric, integer, enabled, disabled, delimiter, title and
// description on options.
//
// Failures wrap the ErrLoad and ErrInvalidModel sentinels, so callers can
// branch with errors.Is; errors.As against *ScriptError recovers the script
// identity.
package model
