package cbi

import (
	"testing"

	"github.com/goliatone/go-cbi/uci"
)

// testCase standardises table-driven tests across the package.
type testCase struct {
	name string
	run  func(t *testing.T)
}

// runTestCases executes the provided cases using t.Run, guarding against nil funcs.
func runTestCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if tc.run == nil {
				t.Skip("no-op test case")
				return
			}
			tc.run(t)
		})
	}
}

// countingStore wraps a MemStore and counts calls per operation, so tests
// can assert which paths touch the store.
type countingStore struct {
	*uci.MemStore
	shows, sets, adds, dels int
}

func newCountingStore() *countingStore {
	return &countingStore{MemStore: uci.NewMemStore()}
}

func (c *countingStore) Show(config string) (uci.Namespace, error) {
	c.shows++
	return c.MemStore.Show(config)
}

func (c *countingStore) Set(config, section, option, value string) error {
	c.sets++
	return c.MemStore.Set(config, section, option, value)
}

func (c *countingStore) AddSection(config, sectiontype string) (string, error) {
	c.adds++
	return c.MemStore.AddSection(config, sectiontype)
}

func (c *countingStore) Delete(config, section, option string) error {
	c.dels++
	return c.MemStore.Delete(config, section, option)
}

func (c *countingStore) DeleteSection(config, section string) error {
	c.dels++
	return c.MemStore.DeleteSection(config, section)
}

// failingStore rejects every mutation, for write-failure paths.
type failingStore struct {
	*uci.MemStore
}

func (f *failingStore) Set(config, section, option, value string) error {
	return errTestStore
}

func (f *failingStore) AddSection(config, sectiontype string) (string, error) {
	return "", errTestStore
}

func (f *failingStore) Delete(config, section, option string) error {
	return errTestStore
}

func (f *failingStore) DeleteSection(config, section string) error {
	return errTestStore
}

type storeError string

func (e storeError) Error() string { return string(e) }

const errTestStore = storeError("store rejected the call")

func networkStore(t *testing.T) *uci.MemStore {
	t.Helper()
	s := uci.NewMemStore()
	s.Seed("network", uci.Namespace{
		"lan": uci.Options{
			uci.TypeKey: "interface",
			"proto":     "static",
			"ipaddr":    "192.168.1.1",
		},
		"wan": uci.Options{
			uci.TypeKey: "interface",
			"proto":     "dhcp",
		},
	})
	return s
}

func mustMap(t *testing.T, s uci.Store, config string) *Map {
	t.Helper()
	m, err := NewMap(s, config)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}
