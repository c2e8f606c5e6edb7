package ucix

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// DefaultDecodeHooks returns the UCI hook set (boolean literals, duration,
// list splitting, text unmarshaler).
func DefaultDecodeHooks() []mapstructure.DecodeHookFunc {
	return []mapstructure.DecodeHookFunc{
		BoolHook(),
		DurationHook(),
		ListHook(),
		TextUnmarshalerHook(),
	}
}

// ParseBool interprets a value using the boolean literal table: 1, on,
// true, yes and enabled are true; 0, off, false, no and disabled are false.
// Anything else is an error; partial spellings are not booleans.
func ParseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "on", "true", "yes", "enabled":
		return true, nil
	case "0", "off", "false", "no", "disabled":
		return false, nil
	default:
		return false, fmt.Errorf("ucix: invalid boolean literal %q", value)
	}
}

// BoolHook applies the boolean literal table to string inputs headed for
// bool fields.
func BoolHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Bool {
			return data, nil
		}
		return ParseBool(reflect.ValueOf(data).String())
	}
}

// ListHook splits a space-joined option value into slice elements. Element
// conversion stays with the decoder, so "1 2 3" still reaches []int fields.
func ListHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
			return data, nil
		}
		if to.Elem().Kind() == reflect.Uint8 {
			return data, nil
		}
		return strings.Fields(reflect.ValueOf(data).String()), nil
	}
}

// DurationHook converts strings (e.g., "5s") into time.Duration.
func DurationHook() mapstructure.DecodeHookFunc {
	return mapstructure.StringToTimeDurationHookFunc()
}

// TextUnmarshalerHook mirrors koanf's helper allowing
// encoding.TextUnmarshaler targets.
func TextUnmarshalerHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		result := reflect.New(to).Interface()
		unmarshaller, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return data, nil
		}
		if err := unmarshaller.UnmarshalText([]byte(reflect.ValueOf(data).String())); err != nil {
			return nil, err
		}
		return result, nil
	}
}
