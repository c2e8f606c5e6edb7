package cbi

import (
	"testing"

	"github.com/goliatone/go-cbi/uci"
)

func TestNamedSectionParse(t *testing.T) {
	runTestCases(t, []testCase{
		{
			name: "present instance binds its fields",
			run: func(t *testing.T) {
				m := mustMap(t, networkStore(t), "network")
				sec := m.NamedSection("lan", "interface")
				sec.Value("proto")

				form := FormMap(map[string]string{
					"cbi.submit":             "1",
					"cbid.network.lan.proto": "dhcp",
				})
				if err := m.Parse(form); err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if got, _ := m.Get("lan", "proto"); got != "dhcp" {
					t.Fatalf("got %q", got)
				}
			},
		},
		{
			name: "absent instance skips field parsing",
			run: func(t *testing.T) {
				m := mustMap(t, networkStore(t), "network")
				sec := m.NamedSection("guest", "interface")
				sec.Value("proto")

				form := FormMap(map[string]string{
					"cbi.submit":               "1",
					"cbid.network.guest.proto": "dhcp",
				})
				if err := m.Parse(form); err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if _, ok := m.GetAll("guest"); ok {
					t.Fatal("absent section materialized without a create request")
				}
			},
		},
		{
			name: "create request without addremove is ignored",
			run: func(t *testing.T) {
				m := mustMap(t, networkStore(t), "network")
				m.NamedSection("guest", "interface")

				form := FormMap(map[string]string{
					"cbi.submit":            "1",
					"cbi.cns.network.guest": "1",
				})
				if err := m.Parse(form); err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if _, ok := m.GetAll("guest"); ok {
					t.Fatal("section created without addremove")
				}
			},
		},
		{
			name: "remove request without addremove is ignored",
			run: func(t *testing.T) {
				m := mustMap(t, networkStore(t), "network")
				m.NamedSection("lan", "interface")

				form := FormMap(map[string]string{
					"cbi.submit":          "1",
					"cbi.rns.network.lan": "1",
				})
				if err := m.Parse(form); err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if _, ok := m.GetAll("lan"); !ok {
					t.Fatal("section removed without addremove")
				}
			},
		},
		{
			name: "remove request for an absent instance is a no-op",
			run: func(t *testing.T) {
				m := mustMap(t, networkStore(t), "network")
				sec := m.NamedSection("guest", "interface")
				sec.AddRemove = true

				form := FormMap(map[string]string{
					"cbi.submit":            "1",
					"cbi.rns.network.guest": "1",
				})
				if err := m.Parse(form); err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if _, ok := m.GetAll("guest"); ok {
					t.Fatal("removal of an absent section created it")
				}
			},
		},
		{
			name: "create request for a present instance is not attempted",
			run: func(t *testing.T) {
				s := newCountingStore()
				s.Seed("network", uci.Namespace{
					"lan": uci.Options{uci.TypeKey: "interface", "proto": "static"},
				})
				m := mustMap(t, s, "network")
				sec := m.NamedSection("lan", "interface")
				sec.AddRemove = true
				v := sec.Value("proto")
				v.Default = "dhcp"

				form := FormMap(map[string]string{
					"cbi.submit":             "1",
					"cbi.cns.network.lan":    "1",
					"cbid.network.lan.proto": "static",
				})
				if err := m.Parse(form); err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if s.sets != 0 {
					t.Fatalf("create path ran against a present section: %d writes", s.sets)
				}
				if got, _ := m.Get("lan", "proto"); got != "static" {
					t.Fatalf("got %q", got)
				}
			},
		},
		{
			name: "create request with an invalid name is not honored",
			run: func(t *testing.T) {
				m := mustMap(t, networkStore(t), "network")
				sec := m.NamedSection("guest zone", "interface")
				sec.AddRemove = true

				form := FormMap(map[string]string{
					"cbi.submit":                 "1",
					"cbi.cns.network.guest zone": "1",
				})
				if err := m.Parse(form); err != nil {
					t.Fatalf("Parse: %v", err)
				}
				if _, ok := m.GetAll("guest zone"); ok {
					t.Fatal("invalid name was created")
				}
			},
		},
	})
}

func TestNamedSectionCreateWritesDefaultsAndParses(t *testing.T) {
	m := mustMap(t, networkStore(t), "network")
	sec := m.NamedSection("guest", "interface")
	sec.AddRemove = true
	proto := sec.Value("proto")
	proto.Default = "dhcp"
	sec.Value("ifname")

	form := FormMap(map[string]string{
		"cbi.submit":                "1",
		"cbi.cns.network.guest":     "1",
		"cbid.network.guest.ifname": "eth0.2",
	})
	if err := m.Parse(form); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	opts, ok := m.GetAll("guest")
	if !ok {
		t.Fatal("section not created")
	}
	if opts[uci.TypeKey] != "interface" {
		t.Fatalf("type = %q", opts[uci.TypeKey])
	}
	if opts["proto"] != "dhcp" {
		t.Fatalf("default not written, proto = %q", opts["proto"])
	}
	if opts["ifname"] != "eth0.2" {
		t.Fatalf("same-cycle field parse missed, ifname = %q", opts["ifname"])
	}
}

func TestNamedSectionRemoveStopsFieldParsing(t *testing.T) {
	m := mustMap(t, networkStore(t), "network")
	sec := m.NamedSection("lan", "interface")
	sec.AddRemove = true
	sec.Value("proto")

	form := FormMap(map[string]string{
		"cbi.submit":             "1",
		"cbi.rns.network.lan":    "1",
		"cbid.network.lan.proto": "dhcp",
	})
	if err := m.Parse(form); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := m.GetAll("lan"); ok {
		t.Fatal("section still present after remove request")
	}
}

func TestNamedSectionOptionals(t *testing.T) {
	m := mustMap(t, networkStore(t), "network")
	sec := m.NamedSection("lan", "interface")
	sec.Optional = true
	mtu := sec.Value("mtu")
	mtu.Optional = true
	mtu.Default = "1500"
	dns := sec.Value("dns")
	dns.Optional = true

	form := FormMap(map[string]string{"cbi.submit": "1"})
	if err := m.Parse(form); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	offered := sec.Optionals("lan")
	if len(offered) != 2 {
		t.Fatalf("expected two offers, got %d", len(offered))
	}

	form = FormMap(map[string]string{
		"cbi.submit":          "1",
		"cbi.opt.network.lan": "mtu",
	})
	if err := m.Parse(form); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, _ := m.Get("lan", "mtu"); got != "1500" {
		t.Fatalf("requested optional not added with default, got %q", got)
	}
	offered = sec.Optionals("lan")
	if len(offered) != 1 || offered[0].OptionName() != "dns" {
		t.Fatalf("offer list after add: %v", fieldNames(offered))
	}
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.OptionName()
	}
	return names
}
