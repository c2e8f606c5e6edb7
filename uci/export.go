package uci

import (
	"github.com/goliatone/go-errors"
	"github.com/tidwall/sjson"
)

// ExportJSON renders one config as a JSON document keyed by section name:
// {"lan": {"type": "interface", "options": {"proto": "static"}}}. Metadata
// moves out of the dot-prefixed keys so option names never collide with it.
// Sections appear in sorted name order.
func ExportJSON(s Store, config string) ([]byte, error) {
	ns, err := s.Show(config)
	if err != nil {
		return nil, err
	}
	out := "{}"
	for _, name := range ns.Names() {
		opts := ns[name]
		if out, err = sjson.Set(out, name+".type", opts.Type()); err != nil {
			return nil, exportError(err, config, name)
		}
		if opts.Anonymous() {
			if out, err = sjson.Set(out, name+".anonymous", true); err != nil {
				return nil, exportError(err, config, name)
			}
		}
		for _, key := range optionKeys(opts) {
			if out, err = sjson.Set(out, name+".options."+key, opts[key]); err != nil {
				return nil, exportError(err, config, name)
			}
		}
	}
	return []byte(out), nil
}

func exportError(err error, config, section string) error {
	return errors.Wrap(err, errors.CategoryOperation, "failed to export config").
		WithTextCode("EXPORT_FAILED").
		WithMetadata(map[string]any{"config": config, "section": section})
}
