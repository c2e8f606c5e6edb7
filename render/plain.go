// Package render ships a reference renderer for cbi trees.
//
// Plain turns the render walk into indented text: one header line per node,
// field values read from the snapshot, validation and lifecycle markers
// appended in brackets. It exists for CLIs, examples and tests; richer
// frontends implement cbi.Renderer themselves.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-errors"

	"github.com/goliatone/go-cbi/cbi"
)

// Plain writes one line per rendered node. The walk is sequential, so the
// renderer keeps a little state (the indent fields inherit from their
// section); do not share one Plain across concurrent walks.
type Plain struct {
	w           io.Writer
	fieldIndent string
}

// NewPlain returns a renderer writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w, fieldIndent: "  "}
}

// Render implements cbi.Renderer.
func (p *Plain) Render(template string, ctx cbi.Context) error {
	if p.w == nil {
		return errors.New("writer is required", errors.CategoryBadInput).
			WithTextCode("WRITER_REQUIRED")
	}
	switch template {
	case cbi.TemplateMap:
		return p.mapHeader(ctx)
	case cbi.TemplateNamedSection:
		return p.namedSection(ctx)
	case cbi.TemplateTypedSection:
		return p.typedSection(ctx)
	case cbi.TemplateValue, cbi.TemplateFlag, cbi.TemplateListValue, cbi.TemplateMultiValue:
		return p.field(ctx)
	default:
		return errors.New("unknown template", errors.CategoryBadInput).
			WithTextCode("UNKNOWN_TEMPLATE").
			WithMetadata(map[string]any{"template": template})
	}
}

func (p *Plain) mapHeader(ctx cbi.Context) error {
	m, ok := ctx.Node.(*cbi.Map)
	if !ok {
		return badNode(cbi.TemplateMap, ctx.Node)
	}
	header := fmt.Sprintf("config %s", m.Config)
	if m.Title != "" {
		header = m.Title + " -- " + header
	}
	if err := p.printf("%s\n", header); err != nil {
		return err
	}
	if m.Description != "" {
		return p.printf("  %s\n", m.Description)
	}
	return nil
}

func (p *Plain) namedSection(ctx cbi.Context) error {
	s, ok := ctx.Node.(*cbi.NamedSection)
	if !ok {
		return badNode(cbi.TemplateNamedSection, ctx.Node)
	}
	p.fieldIndent = "  "

	header := fmt.Sprintf("section %s (%s)", s.Name(), s.SectionType())
	if s.Title != "" {
		header = s.Title + " -- " + header
	}
	var markers strings.Builder
	if _, present := ctx.Map.GetAll(ctx.Section); !present {
		markers.WriteString(" [absent]")
	}
	if s.AddRemove {
		markers.WriteString(" [addremove]")
	}
	if err := p.printf("\n%s%s\n", header, markers.String()); err != nil {
		return err
	}
	if s.Description != "" {
		if err := p.printf("  %s\n", s.Description); err != nil {
			return err
		}
	}
	return p.offers("  ", s.Optionals(ctx.Section))
}

func (p *Plain) typedSection(ctx cbi.Context) error {
	s, ok := ctx.Node.(*cbi.TypedSection)
	if !ok {
		return badNode(cbi.TemplateTypedSection, ctx.Node)
	}

	// One frame call with an empty section name, then one call per
	// instance.
	if ctx.Section == "" {
		header := fmt.Sprintf("sections of type %s", s.SectionType())
		if s.Title != "" {
			header = s.Title + " -- " + header
		}
		var markers strings.Builder
		if s.AddRemove {
			markers.WriteString(" [addremove]")
		}
		if s.ErrInvalid {
			markers.WriteString(" [create rejected]")
		}
		if err := p.printf("\n%s%s\n", header, markers.String()); err != nil {
			return err
		}
		if s.Description != "" {
			return p.printf("  %s\n", s.Description)
		}
		return nil
	}

	p.fieldIndent = "    "
	if err := p.printf("  instance %s\n", ctx.Section); err != nil {
		return err
	}
	return p.offers("    ", s.Optionals(ctx.Section))
}

func (p *Plain) field(ctx cbi.Context) error {
	f, ok := ctx.Node.(cbi.Field)
	if !ok {
		return badNode("field", ctx.Node)
	}

	label := f.OptionName()
	if title := nodeTitle(ctx.Node); title != "" {
		label = fmt.Sprintf("%s [%s]", title, f.OptionName())
	}
	display, present := f.ConfigValue(ctx.Section)
	if !present {
		display = "(unset)"
	}

	line := fmt.Sprintf("%s%s = %s", p.fieldIndent, label, display)
	if f.Invalid(ctx.Section) {
		line += " [invalid]"
	}
	if c := choices(ctx.Node); c != "" {
		line += " " + c
	}
	return p.printf("%s\n", line)
}

// offers lists the absent optional fields collected by the last parse
// cycle.
func (p *Plain) offers(indent string, fields []cbi.Field) error {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.OptionName())
	}
	return p.printf("%savailable: %s\n", indent, strings.Join(names, ", "))
}

func (p *Plain) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(p.w, format, args...)
	return err
}

func nodeTitle(node any) string {
	switch f := node.(type) {
	case *cbi.Value:
		return f.Title
	case *cbi.Flag:
		return f.Title
	case *cbi.ListValue:
		return f.Title
	case *cbi.MultiValue:
		return f.Title
	}
	return ""
}

func choices(node any) string {
	switch f := node.(type) {
	case *cbi.ListValue:
		return fmt.Sprintf("(one of: %s)", strings.Join(f.Keys(), ", "))
	case *cbi.MultiValue:
		return fmt.Sprintf("(any of: %s)", strings.Join(f.Keys(), ", "))
	}
	return ""
}

func badNode(template string, node any) error {
	return errors.New("unexpected node for template", errors.CategoryBadInput).
		WithTextCode("UNEXPECTED_NODE").
		WithMetadata(map[string]any{
			"template": template,
			"node":     fmt.Sprintf("%T", node),
		})
}
