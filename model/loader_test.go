package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-cbi/cbi"
	"github.com/goliatone/go-cbi/uci"
)

func networkStore() *uci.MemStore {
	store := uci.NewMemStore()
	store.Seed("network", uci.Namespace{
		"lan":   {uci.TypeKey: "interface", "proto": "static", "ipaddr": "192.168.1.1"},
		"wan":   {uci.TypeKey: "interface", "proto": "dhcp"},
		"guest": {uci.TypeKey: "interface", "proto": "none"},
	})
	return store
}

// failingStore errors on every read so Map construction inside a script
// fails.
type failingStore struct{}

func (failingStore) Show(string) (uci.Namespace, error) {
	return nil, errors.New("backend offline")
}

func (failingStore) Get(string, string, string) (string, bool) {
	return "", false
}

func (failingStore) Set(string, string, string, string) error {
	return nil
}

func (failingStore) AddSection(string, string) (string, error) {
	return "", nil
}

func (failingStore) Delete(string, string, string) error {
	return nil
}

func (failingStore) DeleteSection(string, string) error {
	return nil
}

type recordingLogger struct {
	debugs []string
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.debugs = append(l.debugs, msg) }
func (l *recordingLogger) Info(msg string, args ...any)  {}
func (l *recordingLogger) Error(msg string, args ...any) {}

const basicModel = `
local m = Map("network", "Network", "Network configuration")
local s = m:named_section("lan", "interface", "LAN")
s.addremove = true
local o = s:option("value", "ipaddr", "IPv4 address")
o.default = "192.168.1.1"
return m
`

func TestLoadStringBuildsMap(t *testing.T) {
	m, err := New(networkStore()).LoadString(basicModel)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if m.Config != "network" {
		t.Errorf("Config = %q, want network", m.Config)
	}
	if m.Title != "Network" || m.Description != "Network configuration" {
		t.Errorf("map text = %q / %q", m.Title, m.Description)
	}
	if len(m.Sections()) != 1 {
		t.Fatalf("Sections() = %d, want 1", len(m.Sections()))
	}
	s, ok := m.Sections()[0].(*cbi.NamedSection)
	if !ok {
		t.Fatalf("section kind = %T, want *cbi.NamedSection", m.Sections()[0])
	}
	if s.Name() != "lan" || s.SectionType() != "interface" {
		t.Errorf("section = %s/%s, want lan/interface", s.Name(), s.SectionType())
	}
	if !s.AddRemove {
		t.Error("addremove attribute was not applied")
	}
	if s.Title != "LAN" {
		t.Errorf("section title = %q, want LAN", s.Title)
	}
	fields := s.Fields()
	if len(fields) != 1 {
		t.Fatalf("Fields() = %d, want 1", len(fields))
	}
	if fields[0].OptionName() != "ipaddr" {
		t.Errorf("option = %q, want ipaddr", fields[0].OptionName())
	}
	if fields[0].DefaultValue() != "192.168.1.1" {
		t.Errorf("default = %q, want 192.168.1.1", fields[0].DefaultValue())
	}
}

func TestLoadStringRoundTrip(t *testing.T) {
	store := networkStore()
	m, err := New(store).LoadString(basicModel)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	form := cbi.FormMap(map[string]string{
		"cbi.submit":              "1",
		"cbid.network.lan.ipaddr": "10.0.0.1",
	})
	if err := m.Parse(form); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got, _ := store.Get("network", "lan", "ipaddr"); got != "10.0.0.1" {
		t.Errorf("store ipaddr = %q, want 10.0.0.1", got)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.lua")
	if err := os.WriteFile(path, []byte(basicModel), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	m, err := New(networkStore()).LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if m.Config != "network" {
		t.Errorf("Config = %q, want network", m.Config)
	}
}

func TestLoadFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.lua")

	_, err := New(networkStore()).LoadFile(path)
	if err == nil {
		t.Fatal("LoadFile() expected an error for a missing script")
	}
	if !errors.Is(err, ErrLoad) {
		t.Errorf("errors.Is(err, ErrLoad) = false, err = %v", err)
	}
	var serr *ScriptError
	if !errors.As(err, &serr) {
		t.Fatalf("errors.As(*ScriptError) = false, err = %v", err)
	}
	if serr.Script != path {
		t.Errorf("Script = %q, want %q", serr.Script, path)
	}
}

func TestLoadStringFailures(t *testing.T) {
	runTestCases(t, []testCase{
		{
			name: "compile error",
			run: func(t *testing.T) {
				_, err := New(networkStore()).LoadString(`return (((`)
				if !errors.Is(err, ErrLoad) {
					t.Errorf("errors.Is(err, ErrLoad) = false, err = %v", err)
				}
			},
		},
		{
			name: "runtime error",
			run: func(t *testing.T) {
				_, err := New(networkStore()).LoadString(`error("boom")`)
				if !errors.Is(err, ErrLoad) {
					t.Fatalf("errors.Is(err, ErrLoad) = false, err = %v", err)
				}
				if !strings.Contains(err.Error(), "boom") {
					t.Errorf("error %q does not carry the raised message", err)
				}
			},
		},
		{
			name: "store read failure",
			run: func(t *testing.T) {
				_, err := New(failingStore{}).LoadString(`return Map("network")`)
				if !errors.Is(err, ErrLoad) {
					t.Fatalf("errors.Is(err, ErrLoad) = false, err = %v", err)
				}
				if !strings.Contains(err.Error(), `Map("network")`) {
					t.Errorf("error %q does not name the failing constructor", err)
				}
			},
		},
	})
}

func TestLoadStringSandbox(t *testing.T) {
	var cases []testCase
	for _, global := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		global := global
		cases = append(cases, testCase{
			name: global + " removed",
			run: func(t *testing.T) {
				_, err := New(networkStore()).LoadString(global + `("x")`)
				if !errors.Is(err, ErrLoad) {
					t.Errorf("calling %s: errors.Is(err, ErrLoad) = false, err = %v", global, err)
				}
			},
		})
	}
	cases = append(cases, testCase{
		name: "safe libraries stay open",
		run: func(t *testing.T) {
			src := `
local m = Map("network")
local s = m:named_section("lan", "interface")
s.title = string.upper("lan") .. tostring(math.floor(2.9)) .. table.concat({"a", "b"}, "-")
return m
`
			m, err := New(networkStore()).LoadString(src)
			if err != nil {
				t.Fatalf("LoadString() error = %v", err)
			}
			ns := m.Sections()[0].(*cbi.NamedSection)
			if ns.Title != "LAN2a-b" {
				t.Errorf("title = %q, want LAN2a-b", ns.Title)
			}
		},
	})
	runTestCases(t, cases)
}

func TestLoadStringInvalidReturn(t *testing.T) {
	scripts := []struct {
		name string
		src  string
	}{
		{"no return", `local m = Map("network")`},
		{"nil return", `return nil`},
		{"number return", `return 42`},
		{"table return", `return {}`},
		{"string return", `return "map"`},
	}

	var cases []testCase
	for _, s := range scripts {
		s := s
		cases = append(cases, testCase{
			name: s.name,
			run: func(t *testing.T) {
				_, err := New(networkStore()).LoadString(s.src)
				if !errors.Is(err, ErrInvalidModel) {
					t.Errorf("errors.Is(err, ErrInvalidModel) = false, err = %v", err)
				}
				if errors.Is(err, ErrLoad) {
					t.Errorf("invalid return should not match ErrLoad, err = %v", err)
				}
			},
		})
	}
	runTestCases(t, cases)
}

func TestWithLogger(t *testing.T) {
	log := &recordingLogger{}
	if _, err := New(networkStore(), WithLogger(log)).LoadString(basicModel); err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if len(log.debugs) == 0 {
		t.Error("expected a debug line after a successful load")
	}
}
