// Package cbi binds sections and options of a configuration store onto a
// tree of typed, validating form fields.
//
// A Map roots the tree for one config and owns a write-through snapshot of
// its contents: reads are answered from the snapshot, every mutation goes
// through the store first and updates the snapshot only on success. Sections
// come in two kinds, NamedSection binding one fixed section name and
// TypedSection binding every instance of a section type, and own leaf fields
// (Value, Flag, ListValue, MultiValue) that validate submitted input and
// write it back.
//
// One tree services one cycle: build it, feed submitted input to Map.Parse,
// hand the same tree to Map.Render. Validation failures are recorded per
// section instance and surfaced to the renderer; store failures abort the
// parse walk and are returned to the caller.
package cbi
