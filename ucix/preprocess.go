package ucix

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/goliatone/go-cbi/uci"
)

// Preprocessor transforms the normalized options map before decoding begins.
// Returning nil keeps the current map.
type Preprocessor func(map[string]any) (map[string]any, error)

// PreprocessMerge overlays the provided sources onto the options map.
// Sources can be option maps or structs; later sources override earlier ones.
// Useful for folding a globals section into per-instance options.
func PreprocessMerge(sources ...any) Preprocessor {
	return func(data map[string]any) (map[string]any, error) {
		merged := cloneMap(data)
		for idx, src := range sources {
			if err := mergeInto(merged, src); err != nil {
				return nil, fmt.Errorf("ucix: merge source %d: %w", idx, err)
			}
		}
		return merged, nil
	}
}

// PreprocessRename rewrites option names present in the map, leaving values
// untouched. Missing source names are ignored; an existing target name is
// overwritten.
func PreprocessRename(renames map[string]string) Preprocessor {
	return func(data map[string]any) (map[string]any, error) {
		out := cloneMap(data)
		for from, to := range renames {
			value, ok := out[from]
			if !ok || from == to {
				continue
			}
			delete(out, from)
			out[to] = value
		}
		return out, nil
	}
}

// toMap normalizes decode input into map[string]any. String-valued maps
// (uci.Options included) convert directly; anything else goes through a
// mapstructure round trip.
func toMap(input any) (map[string]any, error) {
	if input == nil {
		return map[string]any{}, nil
	}
	switch v := input.(type) {
	case map[string]any:
		return cloneMap(v), nil
	case uci.Options:
		return stringMapToAny(v), nil
	case map[string]string:
		return stringMapToAny(v), nil
	}

	val := reflect.ValueOf(input)
	if val.Kind() == reflect.Map {
		out := map[string]any{}
		iter := val.MapRange()
		for iter.Next() {
			key, ok := iter.Key().Interface().(string)
			if !ok {
				return nil, fmt.Errorf("ucix: cannot convert map key %T to string", iter.Key().Interface())
			}
			out[key] = iter.Value().Interface()
		}
		return out, nil
	}

	out := map[string]any{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "uci",
		Result:           &out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(input); err != nil {
		return nil, err
	}
	return out, nil
}

func stringMapToAny(src map[string]string) map[string]any {
	out := make(map[string]any, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

func cloneMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		if nested, ok := v.(map[string]any); ok {
			dst[k] = cloneMap(nested)
			continue
		}
		dst[k] = v
	}
	return dst
}

func mergeInto(dst map[string]any, src any) error {
	if src == nil {
		return nil
	}
	srcMap, err := toMap(src)
	if err != nil {
		return err
	}
	return mergeMaps(dst, srcMap)
}

func mergeMaps(dst, src map[string]any) error {
	for key, value := range src {
		if existing, ok := dst[key]; ok {
			existingMap, okExisting := existing.(map[string]any)
			incomingMap, okIncoming := value.(map[string]any)
			if okExisting && okIncoming {
				if err := mergeMaps(existingMap, incomingMap); err != nil {
					return err
				}
				continue
			}
		}
		dst[key] = value
	}
	return nil
}
