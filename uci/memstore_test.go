package uci

import (
	"testing"
)

func seedStore(t *testing.T) *MemStore {
	t.Helper()
	s := NewMemStore()
	s.Seed("network", Namespace{
		"lan": Options{
			TypeKey:  "interface",
			"proto":  "static",
			"ipaddr": "192.168.1.1",
		},
		"wan": Options{
			TypeKey: "interface",
			"proto": "dhcp",
		},
	})
	return s
}

func TestMemStoreShowMissingConfig(t *testing.T) {
	s := NewMemStore()
	if _, err := s.Show("nope"); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestMemStoreShowReturnsCopy(t *testing.T) {
	s := seedStore(t)
	ns, err := s.Show("network")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ns["lan"]["proto"] = "dhcp"
	delete(ns, "wan")

	again, err := s.Show("network")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again["lan"]["proto"] != "static" {
		t.Fatalf("store mutated through Show copy: %#v", again["lan"])
	}
	if _, ok := again["wan"]; !ok {
		t.Fatal("section lost through Show copy")
	}
}

func TestMemStoreSeedClones(t *testing.T) {
	src := Namespace{"lan": Options{TypeKey: "interface", "proto": "static"}}
	s := NewMemStore()
	s.Seed("network", src)
	src["lan"]["proto"] = "dhcp"

	if v, _ := s.Get("network", "lan", "proto"); v != "static" {
		t.Fatalf("seed aliased caller map, got proto=%q", v)
	}
}

func TestMemStoreGet(t *testing.T) {
	s := seedStore(t)
	if v, ok := s.Get("network", "lan", "ipaddr"); !ok || v != "192.168.1.1" {
		t.Fatalf("got %q, %v", v, ok)
	}
	if _, ok := s.Get("network", "lan", "missing"); ok {
		t.Fatal("expected miss for unknown option")
	}
	if _, ok := s.Get("network", "nope", "proto"); ok {
		t.Fatal("expected miss for unknown section")
	}
	if _, ok := s.Get("nope", "lan", "proto"); ok {
		t.Fatal("expected miss for unknown config")
	}
}

func TestMemStoreSetOption(t *testing.T) {
	s := seedStore(t)
	if err := s.Set("network", "lan", "netmask", "255.255.255.0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := s.Get("network", "lan", "netmask"); v != "255.255.255.0" {
		t.Fatalf("got %q", v)
	}
}

func TestMemStoreSetCreatesNamedSection(t *testing.T) {
	s := seedStore(t)
	if err := s.Set("network", "wan6", "", "interface"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ns, _ := s.Show("network")
	sec, ok := ns["wan6"]
	if !ok {
		t.Fatal("section not created")
	}
	if sec.Type() != "interface" {
		t.Fatalf("got type %q", sec.Type())
	}
	if sec.Anonymous() {
		t.Fatal("named section reported anonymous")
	}
}

func TestMemStoreSetErrors(t *testing.T) {
	s := seedStore(t)
	cases := []struct {
		name    string
		config  string
		section string
		option  string
		value   string
	}{
		{"missing config", "nope", "lan", "proto", "dhcp"},
		{"missing section", "network", "nope", "proto", "dhcp"},
		{"empty section name", "network", "", "proto", "dhcp"},
		{"reserved option", "network", "lan", ".type", "route"},
		{"create without type", "network", "guest", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := s.Set(tc.config, tc.section, tc.option, tc.value); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestMemStoreAddSection(t *testing.T) {
	s := seedStore(t)
	first, err := s.AddSection("network", "route")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "cfg000000" {
		t.Fatalf("got name %q", first)
	}
	second, err := s.AddSection("network", "route")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != "cfg000001" {
		t.Fatalf("got name %q", second)
	}

	ns, _ := s.Show("network")
	sec := ns[first]
	if sec.Type() != "route" || !sec.Anonymous() {
		t.Fatalf("unexpected section: %#v", sec)
	}
}

func TestMemStoreAddSectionSkipsTakenNames(t *testing.T) {
	s := NewMemStore()
	s.Seed("network", Namespace{
		"cfg000000": Options{TypeKey: "route"},
	})
	name, err := s.AddSection("network", "route")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "cfg000001" {
		t.Fatalf("got name %q", name)
	}
}

func TestMemStoreDelete(t *testing.T) {
	s := seedStore(t)
	if err := s.Delete("network", "lan", "ipaddr"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.Get("network", "lan", "ipaddr"); ok {
		t.Fatal("option still present")
	}
	// absent option and section are no-ops
	if err := s.Delete("network", "lan", "ipaddr"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete("network", "nope", "x"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete("nope", "lan", "x"); err == nil {
		t.Fatal("expected error for missing config")
	}
	if err := s.Delete("network", "lan", ".type"); err == nil {
		t.Fatal("expected error for reserved key")
	}
}

func TestMemStoreDeleteSection(t *testing.T) {
	s := seedStore(t)
	if err := s.DeleteSection("network", "wan"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ns, _ := s.Show("network")
	if _, ok := ns["wan"]; ok {
		t.Fatal("section still present")
	}
	if err := s.DeleteSection("network", "wan"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMemStoreCreateConfig(t *testing.T) {
	s := NewMemStore()
	s.CreateConfig("firewall")
	ns, err := s.Show("firewall")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ns) != 0 {
		t.Fatalf("expected empty namespace, got %#v", ns)
	}

	s.Seed("firewall", Namespace{"zone": Options{TypeKey: "zone"}})
	s.CreateConfig("firewall")
	ns, _ = s.Show("firewall")
	if _, ok := ns["zone"]; !ok {
		t.Fatal("CreateConfig clobbered existing config")
	}
}

func TestNamespaceNamesSorted(t *testing.T) {
	ns := Namespace{
		"wan": Options{TypeKey: "interface"},
		"lan": Options{TypeKey: "interface"},
		"dmz": Options{TypeKey: "interface"},
	}
	names := ns.Names()
	want := []string{"dmz", "lan", "wan"}
	if len(names) != len(want) {
		t.Fatalf("got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}
