package ucix

import (
	"testing"

	"github.com/goliatone/go-cbi/uci"
)

func TestPreprocessMerge(t *testing.T) {
	base := map[string]any{"proto": "static", "mtu": "1500"}
	overlay := struct {
		Gateway string `uci:"gateway"`
	}{Gateway: "192.168.1.254"}

	out, err := PreprocessMerge(uci.Options{"mtu": "1400"}, overlay)(base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["proto"] != "static" {
		t.Fatalf("base key lost: %#v", out)
	}
	if out["mtu"] != "1400" {
		t.Fatalf("source should override base: %#v", out)
	}
	if out["gateway"] != "192.168.1.254" {
		t.Fatalf("struct source not merged: %#v", out)
	}
	if base["mtu"] != "1500" {
		t.Fatalf("input map mutated: %#v", base)
	}
}

func TestPreprocessMergeBadSource(t *testing.T) {
	if _, err := PreprocessMerge(42)(map[string]any{}); err == nil {
		t.Fatal("expected error for unmergeable source")
	}
}

func TestPreprocessRename(t *testing.T) {
	out, err := PreprocessRename(map[string]string{
		"gw":      "gateway",
		"missing": "elsewhere",
		"same":    "same",
	})(map[string]any{"gw": "192.168.1.254", "same": "kept"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := out["gw"]; ok {
		t.Fatalf("source key survived rename: %#v", out)
	}
	if out["gateway"] != "192.168.1.254" {
		t.Fatalf("rename not applied: %#v", out)
	}
	if out["same"] != "kept" {
		t.Fatalf("identity rename dropped the key: %#v", out)
	}
	if _, ok := out["elsewhere"]; ok {
		t.Fatalf("missing source invented a key: %#v", out)
	}
}

func TestToMapRejectsNonStringKeys(t *testing.T) {
	if _, err := toMap(map[int]string{1: "x"}); err == nil {
		t.Fatal("expected error")
	}
}
