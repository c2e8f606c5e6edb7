package model

import (
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/goliatone/go-cbi/cbi"
	"github.com/goliatone/go-cbi/logger"
	"github.com/goliatone/go-cbi/uci"
)

// Loader executes model scripts against one store. Every Load call runs in
// a fresh interpreter that is closed before the call returns; only the
// built tree survives.
type Loader struct {
	store uci.Store
	log   logger.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger replaces the default logger.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// New returns a Loader binding the store every loaded map will read from
// and write to.
func New(store uci.Store, opts ...Option) *Loader {
	ld := &Loader{
		store: store,
		log:   logger.NewDefaultLogger("model"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ld)
		}
	}
	return ld
}

// LoadFile reads and executes a model script from disk.
func (l *Loader) LoadFile(path string) (*cbi.Map, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, scriptError(path, ErrLoad,
			errors.Wrap(err, errors.CategoryOperation, "failed to read model script").
				WithTextCode("MODEL_LOAD_FAILED").
				WithMetadata(map[string]any{"path": path}))
	}
	return l.load(path, string(src))
}

// LoadString executes a model script held in memory.
func (l *Loader) LoadString(src string) (*cbi.Map, error) {
	return l.load("<model>", src)
}

func (l *Loader) load(script, src string) (m *cbi.Map, err error) {
	L := newState()
	defer L.Close()
	installBridge(L, l.store)

	defer func() {
		if r := recover(); r != nil {
			m = nil
			err = scriptError(script, ErrLoad, fmt.Errorf("lua panic: %v", r))
		}
	}()

	fn, cerr := L.Load(strings.NewReader(src), script)
	if cerr != nil {
		return nil, scriptError(script, ErrLoad, cerr)
	}

	top := L.GetTop()
	L.Push(fn)
	if perr := L.PCall(0, lua.MultRet, nil); perr != nil {
		return nil, scriptError(script, ErrLoad, perr)
	}

	if L.GetTop() == top {
		return nil, scriptError(script, ErrInvalidModel, invalidModel("nothing"))
	}
	ret := L.Get(top + 1)
	ud, ok := ret.(*lua.LUserData)
	if !ok {
		return nil, scriptError(script, ErrInvalidModel, invalidModel(ret.Type().String()))
	}
	m, ok = ud.Value.(*cbi.Map)
	if !ok {
		return nil, scriptError(script, ErrInvalidModel, invalidModel("userdata"))
	}

	l.log.Debug("model loaded", "script", script, "config", m.Config, "sections", len(m.Sections()))
	return m, nil
}

func invalidModel(returned string) error {
	return errors.New("model script must return a map", errors.CategoryValidation).
		WithTextCode("INVALID_MODEL").
		WithMetadata(map[string]any{"returned": returned})
}

// newState builds the restricted interpreter: selected libraries only, the
// code-loading globals removed.
func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
