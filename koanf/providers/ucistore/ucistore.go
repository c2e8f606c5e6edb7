package ucistore

import (
	"errors"
	"strings"

	"github.com/goliatone/go-cbi/uci"
)

// UCIStore implements a koanf provider over one configuration namespace of
// a uci.Store.
type UCIStore struct {
	store   uci.Store
	config  string
	typeKey string
}

// Provider returns a provider that reads the named configuration from the
// store and returns it as a nested map[string]interface{}, one child map
// per section keyed by section name, one entry per option. Reserved
// dot-prefixed keys are not exposed; section types stay invisible unless
// requested through ProviderWithTypes.
func Provider(store uci.Store, config string) *UCIStore {
	return &UCIStore{
		store:  store,
		config: config,
	}
}

// ProviderWithTypes works exactly the same as Provider except each
// section's type tag is additionally exposed under typeKey, for instance
// "@type". Pick a key that cannot collide with an option name; option
// names never start with "@" or ".".
func ProviderWithTypes(store uci.Store, config, typeKey string) *UCIStore {
	return &UCIStore{
		store:   store,
		config:  config,
		typeKey: typeKey,
	}
}

// Read returns the namespace as a nested map. Store failures pass through
// unchanged.
func (s *UCIStore) Read() (map[string]interface{}, error) {
	ns, err := s.store.Show(s.config)
	if err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(ns))
	for name, opts := range ns {
		section := make(map[string]interface{}, len(opts))
		for key, value := range opts {
			if strings.HasPrefix(key, ".") {
				continue
			}
			section[key] = value
		}
		if s.typeKey != "" {
			if sectiontype := opts.Type(); sectiontype != "" {
				section[s.typeKey] = sectiontype
			}
		}
		out[name] = section
	}
	return out, nil
}

// ReadBytes is not supported by the ucistore provider.
func (s *UCIStore) ReadBytes() ([]byte, error) {
	return nil, errors.New("ucistore provider does not support this method")
}
