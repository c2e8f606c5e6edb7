package uci

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FixtureType identifies the on-disk format of a fixture file.
type FixtureType string

const (
	FixtureJSON FixtureType = "json"
	FixtureYAML FixtureType = "yaml"
	FixtureTOML FixtureType = "toml"
	FixtureUCI  FixtureType = "uci"
)

func (t FixtureType) String() string {
	return string(t)
}

func (t FixtureType) Valid() error {
	switch t {
	case FixtureJSON, FixtureYAML, FixtureTOML, FixtureUCI:
		return nil
	default:
		return errors.New("invalid fixture type", errors.CategoryValidation).
			WithTextCode("INVALID_FIXTURE_TYPE").
			WithMetadata(map[string]any{
				"fixture_type": string(t),
				"valid_types": []string{
					string(FixtureJSON),
					string(FixtureYAML),
					string(FixtureTOML),
					string(FixtureUCI),
				},
			})
	}
}

func (t FixtureType) Parser() koanf.Parser {
	switch t {
	case FixtureJSON:
		return json.Parser()
	case FixtureTOML:
		return toml.Parser()
	case FixtureYAML:
		return yaml.Parser()
	default:
		panic(fmt.Errorf("no koanf parser for fixture type: %s", t))
	}
}

func inferFixtureType(path string) FixtureType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FixtureJSON
	case ".yaml", ".yml":
		return FixtureYAML
	case ".toml":
		return FixtureTOML
	}
	return FixtureUCI
}

// LoadFile seeds one config from a fixture file. JSON, YAML and TOML
// documents map section name → options (the ".type" key included); any
// other extension goes through the UCI text codec.
func (m *MemStore) LoadFile(config, path string) error {
	ft := inferFixtureType(path)
	if ft == FixtureUCI {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to read fixture").
				WithTextCode("FIXTURE_LOAD_FAILED").
				WithMetadata(map[string]any{"config": config, "path": path})
		}
		ns, err := ParseText(data)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to parse fixture").
				WithTextCode("FIXTURE_LOAD_FAILED").
				WithMetadata(map[string]any{"config": config, "path": path})
		}
		m.Seed(config, ns)
		return nil
	}

	// "/" as delimiter keeps the dot-prefixed reserved keys intact
	k := koanf.New("/")
	if err := k.Load(file.Provider(path), ft.Parser()); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to load fixture").
			WithTextCode("FIXTURE_LOAD_FAILED").
			WithMetadata(map[string]any{
				"config":       config,
				"path":         path,
				"fixture_type": ft.String(),
			})
	}
	ns, err := namespaceFromRaw(k.Raw())
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid fixture document").
			WithTextCode("FIXTURE_LOAD_FAILED").
			WithMetadata(map[string]any{"config": config, "path": path})
	}
	m.Seed(config, ns)
	return nil
}

// LoadDir loads every regular file of an /etc/config style directory, one
// config per file. Known fixture extensions are stripped from the config
// name, so network.json seeds the "network" config.
func (m *MemStore) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to read fixture directory").
			WithTextCode("FIXTURE_LOAD_FAILED").
			WithMetadata(map[string]any{"dir": dir})
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if err := m.LoadFile(configName(entry.Name()), filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func configName(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".yaml", ".yml", ".toml":
		return strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	return filename
}

// FromMap seeds a config from an in-memory document of the same shape the
// file fixtures use.
func (m *MemStore) FromMap(config string, data map[string]any) error {
	k := koanf.New("/")
	if err := k.Load(confmap.Provider(data, ""), nil); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to load fixture map").
			WithTextCode("FIXTURE_LOAD_FAILED").
			WithMetadata(map[string]any{"config": config})
	}
	ns, err := namespaceFromRaw(k.Raw())
	if err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid fixture document").
			WithTextCode("FIXTURE_LOAD_FAILED").
			WithMetadata(map[string]any{"config": config})
	}
	m.Seed(config, ns)
	return nil
}

func namespaceFromRaw(raw map[string]any) (Namespace, error) {
	ns := make(Namespace, len(raw))
	for name, v := range raw {
		doc, ok := v.(map[string]any)
		if !ok {
			return nil, errors.New("fixture section must be an object", errors.CategoryValidation).
				WithTextCode("INVALID_FIXTURE_SECTION").
				WithMetadata(map[string]any{"section": name})
		}
		opts := make(Options, len(doc))
		for key, ov := range doc {
			opts[key] = stringify(ov)
		}
		if opts.Type() == "" {
			return nil, errors.New("fixture section missing .type", errors.CategoryValidation).
				WithTextCode("INVALID_FIXTURE_SECTION").
				WithMetadata(map[string]any{"section": name})
		}
		ns[name] = opts
	}
	return ns, nil
}

// stringify renders fixture scalars the way configs store them: booleans as
// "1"/"0", lists space-joined.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "1"
		}
		return "0"
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, stringify(e))
		}
		return strings.Join(parts, " ")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
