package ucix

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Option tweaks decoder behavior before the pipeline runs.
type Option[T any] func(*decoder[T])

// Validator is the validation hook invoked after decoding completes.
type Validator[T any] func(*T) error

// WithDefaults seeds the pipeline with a default value cloned before
// decoding. Later calls override earlier defaults.
func WithDefaults[T any](value T) Option[T] {
	return func(d *decoder[T]) {
		d.defaults = func() (T, error) {
			return value, nil
		}
	}
}

// WithDefaultFunc allows defaults to be generated lazily.
func WithDefaultFunc[T any](fn func() (T, error)) Option[T] {
	return func(d *decoder[T]) {
		d.defaults = fn
	}
}

// WithPreprocess registers one or more preprocessors to run sequentially
// over the normalized options map before decode.
func WithPreprocess[T any](pre ...Preprocessor) Option[T] {
	return func(d *decoder[T]) {
		d.preprocessors = append(d.preprocessors, pre...)
	}
}

// WithPreprocessFunc is a convenience for registering inline preprocessors.
func WithPreprocessFunc[T any](fn func(map[string]any) (map[string]any, error)) Option[T] {
	if fn == nil {
		return func(*decoder[T]) {}
	}
	return WithPreprocess[T](Preprocessor(fn))
}

// WithMerge overlays the provided sources onto the options before decoding;
// later sources override earlier ones and the input itself.
func WithMerge[T any](sources ...any) Option[T] {
	return WithPreprocess[T](PreprocessMerge(sources...))
}

// WithRename rewrites option names before decoding, for legacy spellings.
func WithRename[T any](renames map[string]string) Option[T] {
	return WithPreprocess[T](PreprocessRename(renames))
}

// WithDecodeHooks appends custom decode hooks after the default set.
func WithDecodeHooks[T any](hooks ...mapstructure.DecodeHookFunc) Option[T] {
	return func(d *decoder[T]) {
		for _, hook := range hooks {
			if hook == nil {
				continue
			}
			d.decodeHooks = append(d.decodeHooks, hook)
		}
	}
}

// WithStrictKeys enables mapstructure's strict unused-key detection and
// zero-field enforcement.
func WithStrictKeys[T any]() Option[T] {
	return func(d *decoder[T]) {
		d.decoderConfig.ErrorUnused = true
		d.decoderConfig.ZeroFields = true
	}
}

// WithWeakTyping toggles WeaklyTypedInput behavior. It defaults to on;
// option values are strings.
func WithWeakTyping[T any](enabled bool) Option[T] {
	return func(d *decoder[T]) {
		d.decoderConfig.WeaklyTypedInput = enabled
	}
}

// WithTagName overrides the struct tag key used while decoding.
func WithTagName[T any](tag string) Option[T] {
	return func(d *decoder[T]) {
		if tag == "" {
			return
		}
		d.decoderConfig.TagName = tag
	}
}

// WithReservedKeys keeps dot-prefixed metadata keys in the decode input so
// fields tagged `uci:".type"` can bind them.
func WithReservedKeys[T any]() Option[T] {
	return func(d *decoder[T]) {
		d.keepReserved = true
	}
}

// WithValidator registers a validator invoked after decoding. Only one
// validator is allowed.
func WithValidator[T any](validator Validator[T]) Option[T] {
	return func(d *decoder[T]) {
		if validator == nil {
			return
		}
		if d.validator != nil {
			d.setOptionError("validator already registered")
			return
		}
		d.validator = validator
	}
}

// WithValidatorFunc adapts a value-based validator into the pointer-based
// contract.
func WithValidatorFunc[T any](validator func(T) error) Option[T] {
	if validator == nil {
		return func(*decoder[T]) {}
	}
	return WithValidator(func(cfg *T) error {
		if cfg == nil {
			var zero T
			return validator(zero)
		}
		return validator(*cfg)
	})
}

// WithoutDefaultHooks disables the UCI hook set.
func WithoutDefaultHooks[T any]() Option[T] {
	return func(d *decoder[T]) {
		d.useHookSet = false
	}
}

// WithDefaultHooks forces the UCI hook set back on.
func WithDefaultHooks[T any]() Option[T] {
	return func(d *decoder[T]) {
		d.useHookSet = true
	}
}

// WithOptionError allows external helpers to surface option
// misconfiguration errors.
func WithOptionError[T any](err error) Option[T] {
	return func(d *decoder[T]) {
		if err == nil {
			return
		}
		if d.optionErr == nil {
			d.optionErr = fmt.Errorf("%w: %w", ErrOption, err)
		}
	}
}
