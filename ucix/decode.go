package ucix

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"

	"github.com/goliatone/go-cbi/uci"
)

const (
	stageSource     = "source"
	stageDefaults   = "defaults"
	stagePreprocess = "preprocess"
	stageDecode     = "decode"
	stageValidate   = "validate"
)

var (
	// ErrSource wraps failures reading or normalizing the options being decoded.
	ErrSource = errors.New("ucix: source stage failed")
	// ErrDefaults wraps failures when generating or cloning default instances.
	ErrDefaults = errors.New("ucix: defaults stage failed")
	// ErrPreprocess wraps failures while transforming options before decoding.
	ErrPreprocess = errors.New("ucix: preprocess stage failed")
	// ErrDecode wraps mapstructure decode failures.
	ErrDecode = errors.New("ucix: decode stage failed")
	// ErrValidate wraps validator-reported errors.
	ErrValidate = errors.New("ucix: validate stage failed")
	// ErrOption indicates a misconfigured decode option (e.g., duplicate validator).
	ErrOption = errors.New("ucix: option configuration failed")
)

// StageError describes a failure in a specific pipeline stage along with
// contextual metadata.
type StageError struct {
	Stage string
	Base  error
	Err   error
	Meta  map[string]any
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether the target matches either the stage sentinel or the
// wrapped error.
func (e *StageError) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if errors.Is(e.Base, target) {
		return true
	}
	return errors.Is(e.Err, target)
}

func stageError(stage string, base, err error, meta map[string]any) error {
	if err == nil {
		return nil
	}
	return &StageError{
		Stage: stage,
		Base:  base,
		Err:   err,
		Meta:  meta,
	}
}

// decoder holds Decode state and caller-supplied options.
type decoder[T any] struct {
	input         any
	defaults      func() (T, error)
	preprocessors []Preprocessor
	decodeHooks   []mapstructure.DecodeHookFunc
	decoderConfig mapstructure.DecoderConfig
	validator     Validator[T]
	keepReserved  bool
	useHookSet    bool
	optionErr     error
}

func newDecoder[T any](input any) *decoder[T] {
	return &decoder[T]{
		input: input,
		decoderConfig: mapstructure.DecoderConfig{
			TagName:          "uci",
			WeaklyTypedInput: true,
		},
		useHookSet: true,
	}
}

// Decode turns one section's options into a T. input may be a uci.Options, a
// plain string or any map, or a struct; reserved dot-prefixed keys are
// stripped unless WithReservedKeys keeps them. When any stage fails the
// returned error wraps one of the ErrSource/ErrDefaults/ErrPreprocess/
// ErrDecode/ErrValidate sentinels so callers can branch via errors.Is while
// still accessing StageError metadata via errors.As.
func Decode[T any](input any, options ...Option[T]) (T, error) {
	d := newDecoder[T](input)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(d)
	}
	if d.optionErr != nil {
		var zero T
		return zero, d.optionErr
	}
	return d.run()
}

// DecodeSection reads one section from the store and decodes it.
func DecodeSection[T any](store uci.Store, config, section string, options ...Option[T]) (T, error) {
	var zero T
	if store == nil {
		return zero, stageError(stageSource, ErrSource, errors.New("nil store"), nil)
	}
	ns, err := store.Show(config)
	if err != nil {
		return zero, stageError(stageSource, ErrSource, err, map[string]any{
			"config": config,
		})
	}
	sec, ok := ns[section]
	if !ok {
		return zero, stageError(stageSource, ErrSource,
			fmt.Errorf("section %q not found in config %q", section, config),
			map[string]any{"config": config, "section": section})
	}
	return Decode[T](sec, options...)
}

// DecodeType decodes every section of one type, keyed by section name.
func DecodeType[T any](store uci.Store, config, sectiontype string, options ...Option[T]) (map[string]T, error) {
	if store == nil {
		return nil, stageError(stageSource, ErrSource, errors.New("nil store"), nil)
	}
	ns, err := store.Show(config)
	if err != nil {
		return nil, stageError(stageSource, ErrSource, err, map[string]any{
			"config": config,
		})
	}
	out := make(map[string]T)
	for _, name := range ns.Names() {
		if ns[name].Type() != sectiontype {
			continue
		}
		decoded, err := Decode[T](ns[name], options...)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", name, err)
		}
		out[name] = decoded
	}
	return out, nil
}

func (d *decoder[T]) setOptionError(format string, args ...any) {
	if d.optionErr != nil {
		return
	}
	err := fmt.Errorf(format, args...)
	d.optionErr = fmt.Errorf("%w: %w", ErrOption, err)
}

func (d *decoder[T]) run() (T, error) {
	result, err := d.applyDefaults()
	if err != nil {
		var zero T
		return zero, err
	}

	data, err := toMap(d.input)
	if err != nil {
		var zero T
		return zero, stageError(stageSource, ErrSource, err, nil)
	}
	if !d.keepReserved {
		data = stripReserved(data)
	}

	data, err = d.applyPreprocessors(data)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := d.decode(data, &result); err != nil {
		var zero T
		return zero, err
	}

	if err := d.runValidator(&result); err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}

func (d *decoder[T]) applyDefaults() (T, error) {
	if d.defaults == nil {
		var zero T
		return zero, nil
	}
	val, err := d.defaults()
	if err != nil {
		var zero T
		return zero, stageError(stageDefaults, ErrDefaults, err, nil)
	}
	cloned, err := cloneValue(val)
	if err != nil {
		var zero T
		return zero, stageError(stageDefaults, ErrDefaults, err, map[string]any{
			"reason": "clone",
		})
	}
	return cloned, nil
}

func (d *decoder[T]) applyPreprocessors(data map[string]any) (map[string]any, error) {
	current := data
	for idx, pre := range d.preprocessors {
		if pre == nil {
			continue
		}
		next, err := pre(current)
		if err != nil {
			return nil, stageError(stagePreprocess, ErrPreprocess, err, map[string]any{
				"preprocessor_index": idx,
			})
		}
		if next == nil {
			next = current
		}
		current = next
	}
	return current, nil
}

func (d *decoder[T]) decode(data map[string]any, result *T) error {
	target := prepareDecodeTarget(result)

	config := d.decoderConfig
	config.Result = target
	config.DecodeHook = d.composeDecodeHooks()
	dec, err := mapstructure.NewDecoder(&config)
	if err != nil {
		return stageError(stageDecode, ErrDecode, err, map[string]any{"reason": "decoder_config"})
	}
	if err := dec.Decode(data); err != nil {
		return stageError(stageDecode, ErrDecode, err, nil)
	}
	return nil
}

func (d *decoder[T]) composeDecodeHooks() mapstructure.DecodeHookFunc {
	hooks := make([]mapstructure.DecodeHookFunc, 0, len(d.decodeHooks)+4)
	if d.useHookSet {
		hooks = append(hooks, DefaultDecodeHooks()...)
	}
	hooks = append(hooks, d.decodeHooks...)
	if len(hooks) == 0 {
		return nil
	}
	if len(hooks) == 1 {
		return hooks[0]
	}
	return mapstructure.ComposeDecodeHookFunc(hooks...)
}

func prepareDecodeTarget[T any](result *T) any {
	val := reflect.ValueOf(result).Elem()
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return val.Interface()
	}
	return val.Addr().Interface()
}

func (d *decoder[T]) runValidator(result *T) error {
	if d.validator == nil {
		return nil
	}
	if err := d.validator(result); err != nil {
		return stageError(stageValidate, ErrValidate, err, nil)
	}
	return nil
}

func cloneValue[T any](value T) (T, error) {
	var zero T
	cloned, err := copystructure.Copy(value)
	if err != nil {
		return zero, err
	}
	casted, ok := cloned.(T)
	if !ok {
		return zero, fmt.Errorf("ucix: failed to cast cloned value %T to target type", cloned)
	}
	return casted, nil
}

// stripReserved drops dot-prefixed metadata keys (.type, .anonymous) so they
// never decode into struct fields by accident.
func stripReserved(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, value := range data {
		if strings.HasPrefix(key, ".") {
			continue
		}
		out[key] = value
	}
	return out
}
