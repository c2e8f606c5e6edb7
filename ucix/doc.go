// Package ucix decodes stringly section options into typed structs.
//
// Stores hand back flat string maps; applications want structs with real
// types. Decode runs a staged pipeline over one options map: defaults are
// cloned, the input is normalized (reserved dot-prefixed keys stripped),
// preprocessors run, mapstructure decodes with the `uci` tag and the
// UCI-flavored hook set, then the validator runs. Each stage wraps its
// failures in a sentinel (ErrSource, ErrDefaults, ErrPreprocess, ErrDecode,
// ErrValidate) so callers branch with errors.Is and inspect detail through
// errors.As on *StageError.
//
// Option catalog:
//   - Defaults: WithDefaults, WithDefaultFunc.
//   - Preprocessing: WithPreprocess, WithPreprocessFunc, WithMerge, WithRename.
//   - Decoder behavior: WithDecodeHooks, WithStrictKeys, WithWeakTyping,
//     WithTagName, WithReservedKeys, WithoutDefaultHooks/WithDefaultHooks.
//   - Validation: WithValidator, WithValidatorFunc.
//   - Diagnostics: WithOptionError lets wrappers surface invalid option state.
//
// Hook helpers:
//   - BoolHook applies the boolean literal table (1/on/true/yes/enabled and
//     0/off/false/no/disabled).
//   - ListHook splits space-joined option values into slice elements.
//   - DurationHook mirrors mapstructure's string-to-duration helper.
//   - TextUnmarshalerHook preserves compatibility with encoding.Text(Un)Marshaler types.
package ucix
