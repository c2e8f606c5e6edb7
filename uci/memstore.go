package uci

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-errors"
)

// MemStore is an in-memory Store used by tests, examples and small
// deployments. Safe for concurrent use.
type MemStore struct {
	mu      sync.RWMutex
	configs map[string]Namespace
	nextID  int
}

func NewMemStore() *MemStore {
	return &MemStore{configs: map[string]Namespace{}}
}

// CreateConfig registers an empty config. Creating a config that already
// exists is a no-op.
func (m *MemStore) CreateConfig(config string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.configs[config]; !ok {
		m.configs[config] = Namespace{}
	}
}

// Seed replaces the contents of a config with a copy of ns, creating the
// config if needed.
func (m *MemStore) Seed(config string, ns Namespace) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ns == nil {
		ns = Namespace{}
	}
	m.configs[config] = ns.Clone()
}

func (m *MemStore) Show(config string) (Namespace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ns, ok := m.configs[config]
	if !ok {
		return nil, errors.New("config not found", errors.CategoryBadInput).
			WithTextCode("CONFIG_NOT_FOUND").
			WithMetadata(map[string]any{"config": config})
	}
	return ns.Clone(), nil
}

func (m *MemStore) Get(config, section, option string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sec, ok := m.configs[config][section]
	if !ok {
		return "", false
	}
	value, ok := sec[option]
	return value, ok
}

func (m *MemStore) Set(config, section, option, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.configs[config]
	if !ok {
		return errors.New("config not found", errors.CategoryBadInput).
			WithTextCode("CONFIG_NOT_FOUND").
			WithMetadata(map[string]any{"config": config})
	}
	if section == "" {
		return errors.New("section name required", errors.CategoryBadInput).
			WithTextCode("SECTION_NAME_REQUIRED").
			WithMetadata(map[string]any{"config": config})
	}
	if option == "" {
		// section create / retype, value carries the section type
		if value == "" {
			return errors.New("section type required", errors.CategoryBadInput).
				WithTextCode("SECTION_TYPE_REQUIRED").
				WithMetadata(map[string]any{"config": config, "section": section})
		}
		sec, ok := ns[section]
		if !ok {
			ns[section] = Options{TypeKey: value}
			return nil
		}
		sec[TypeKey] = value
		return nil
	}
	if strings.HasPrefix(option, ".") {
		return errors.New("option name is reserved", errors.CategoryBadInput).
			WithTextCode("OPTION_NAME_RESERVED").
			WithMetadata(map[string]any{"config": config, "section": section, "option": option})
	}
	sec, ok := ns[section]
	if !ok {
		return errors.New("section not found", errors.CategoryBadInput).
			WithTextCode("SECTION_NOT_FOUND").
			WithMetadata(map[string]any{"config": config, "section": section})
	}
	sec[option] = value
	return nil
}

func (m *MemStore) AddSection(config, sectiontype string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.configs[config]
	if !ok {
		return "", errors.New("config not found", errors.CategoryBadInput).
			WithTextCode("CONFIG_NOT_FOUND").
			WithMetadata(map[string]any{"config": config})
	}
	if sectiontype == "" {
		return "", errors.New("section type required", errors.CategoryBadInput).
			WithTextCode("SECTION_TYPE_REQUIRED").
			WithMetadata(map[string]any{"config": config})
	}
	name := m.nextName(ns)
	ns[name] = Options{TypeKey: sectiontype, AnonymousKey: "1"}
	return name, nil
}

// nextName generates cfg%06x names, skipping any that are taken. Callers
// hold mu.
func (m *MemStore) nextName(ns Namespace) string {
	for {
		name := fmt.Sprintf("cfg%06x", m.nextID)
		m.nextID++
		if _, taken := ns[name]; !taken {
			return name
		}
	}
}

func (m *MemStore) Delete(config, section, option string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.configs[config]
	if !ok {
		return errors.New("config not found", errors.CategoryBadInput).
			WithTextCode("CONFIG_NOT_FOUND").
			WithMetadata(map[string]any{"config": config})
	}
	if strings.HasPrefix(option, ".") {
		return errors.New("option name is reserved", errors.CategoryBadInput).
			WithTextCode("OPTION_NAME_RESERVED").
			WithMetadata(map[string]any{"config": config, "section": section, "option": option})
	}
	if sec, ok := ns[section]; ok {
		delete(sec, option)
	}
	return nil
}

func (m *MemStore) DeleteSection(config, section string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.configs[config]
	if !ok {
		return errors.New("config not found", errors.CategoryBadInput).
			WithTextCode("CONFIG_NOT_FOUND").
			WithMetadata(map[string]any{"config": config})
	}
	delete(ns, section)
	return nil
}
