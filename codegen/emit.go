package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"strings"
)

// RuntimeImportPath is the import path of package toolview, referenced by the
// generated Renderers type.
const RuntimeImportPath = "github.com/skosovsky/toolview"

// GeneratedHeader is the first line of every emitted file.
const GeneratedHeader = "// Code generated by toolgen. DO NOT EDIT."

// identifiers declared by every emitted file besides the tool types.
var fixedIdents = []string{"ToolName", "Tools", "Registry", "Renderers"}

// Emit renders tools as one gofmt-ed Go source file in package pkg. Tools are
// emitted in slice order, so equal input yields byte-identical output.
func Emit(pkg string, tools []*ToolTypes) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("invalid package name %q", pkg)
	}
	if err := checkNames(tools); err != nil {
		return nil, err
	}
	e := &emitter{}
	e.header(pkg, needsJSON(tools))
	e.registry(tools)
	for _, t := range tools {
		for _, d := range t.Decls {
			e.decl(t, d)
		}
	}
	e.renderers(tools)
	src, err := format.Source(e.buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

// checkNames rejects tool sets whose generated identifiers would collide.
func checkNames(tools []*ToolTypes) error {
	owner := make(map[string]string)
	claim := func(ident, by string) error {
		if other, dup := owner[ident]; dup {
			return fmt.Errorf("%w: %s is generated for both %s and %s", ErrNameCollision, ident, other, by)
		}
		owner[ident] = by
		return nil
	}
	for _, ident := range fixedIdents {
		owner[ident] = "the registry"
	}
	for _, t := range tools {
		by := fmt.Sprintf("tool %q", t.Tool)
		if err := claim(toolConst(t), by); err != nil {
			return err
		}
		for _, d := range t.Decls {
			if err := claim(d.Name, by); err != nil {
				return err
			}
		}
	}
	return nil
}

func needsJSON(tools []*ToolTypes) bool {
	for _, t := range tools {
		for _, d := range t.Decls {
			for _, f := range d.Fields {
				if usesRaw(f.Type) {
					return true
				}
			}
		}
	}
	return false
}

func usesRaw(n Node) bool {
	switch n := n.(type) {
	case Raw:
		return true
	case Array:
		return usesRaw(n.Elem)
	case Map:
		return usesRaw(n.Value)
	case Nullable:
		return usesRaw(n.Inner)
	default:
		return false
	}
}

func toolConst(t *ToolTypes) string { return "Tool" + t.GoName }

type emitter struct {
	buf bytes.Buffer
}

func (e *emitter) printf(format string, args ...any) {
	fmt.Fprintf(&e.buf, format, args...)
}

func (e *emitter) comment(text, indent string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			e.printf("%s//\n", indent)
			continue
		}
		e.printf("%s// %s\n", indent, line)
	}
}

func (e *emitter) header(pkg string, withJSON bool) {
	e.printf("%s\n\n", GeneratedHeader)
	e.printf("// Package %s holds the typed outputs of the tools published by the schema source.\n", pkg)
	e.printf("package %s\n\n", pkg)
	e.printf("import (\n")
	if withJSON {
		e.printf("\t\"encoding/json\"\n\n")
	}
	e.printf("\t%q\n)\n\n", RuntimeImportPath)
}

func (e *emitter) registry(tools []*ToolTypes) {
	e.printf("// ToolName identifies a tool that declares an output schema.\n")
	e.printf("type ToolName string\n\n")
	e.printf("// Tool names, in schema source order.\n")
	e.printf("const (\n")
	for _, t := range tools {
		e.printf("\t%s ToolName = %s\n", toolConst(t), strconv.Quote(t.Tool))
	}
	e.printf(")\n\n")

	e.printf("// Tools lists every tool with an output schema, in schema source order.\n")
	e.printf("var Tools = []ToolName{\n")
	for _, t := range tools {
		e.printf("\t%s,\n", toolConst(t))
	}
	e.printf("}\n\n")

	e.printf("// Registry maps each tool to the name of its primary output type.\n")
	e.printf("var Registry = map[ToolName]string{\n")
	for _, t := range tools {
		e.printf("\t%s: %s,\n", toolConst(t), strconv.Quote(t.Primary))
	}
	e.printf("}\n\n")
}

func (e *emitter) decl(t *ToolTypes, d *Decl) {
	if d.Name == t.Primary {
		e.printf("// %s is the output of the %s tool.\n", d.Name, t.Tool)
	} else {
		e.printf("// %s is generated from %s in the output schema of the %s tool.\n", d.Name, d.Path, t.Tool)
	}
	if d.Doc != "" {
		e.printf("//\n")
		e.comment(d.Doc, "")
	}
	e.printf("type %s struct {\n", d.Name)
	for _, f := range d.Fields {
		if f.Doc != "" {
			e.comment(f.Doc, "\t")
		}
		typ, omitempty := fieldType(f)
		tag := f.JSONName
		if omitempty {
			tag += ",omitempty"
		}
		e.printf("\t%s %s `json:%s`\n", f.GoName, typ, strconv.Quote(tag))
	}
	e.printf("}\n\n")
}

func (e *emitter) renderers(tools []*ToolTypes) {
	e.printf("// Renderers binds a render function to each tool output type. A nil field\n")
	e.printf("// means the tool has no renderer yet.\n")
	e.printf("type Renderers[R any] struct {\n")
	for _, t := range tools {
		e.printf("\t%s func(%s) R\n", t.GoName, t.Primary)
	}
	e.printf("}\n\n")

	e.printf("// Entries returns a dispatch entry for every bound renderer, in Tools order.\n")
	e.printf("func (r Renderers[R]) Entries() []toolview.Entry[R] {\n")
	e.printf("\tvar entries []toolview.Entry[R]\n")
	for _, t := range tools {
		e.printf("\tif r.%s != nil {\n", t.GoName)
		e.printf("\t\tentries = append(entries, toolview.Handle(string(%s), r.%s))\n", toolConst(t), t.GoName)
		e.printf("\t}\n")
	}
	e.printf("\treturn entries\n}\n\n")

	e.printf("// Missing lists the tools that have no renderer bound, in Tools order.\n")
	e.printf("func (r Renderers[R]) Missing() []ToolName {\n")
	e.printf("\tvar missing []ToolName\n")
	for _, t := range tools {
		e.printf("\tif r.%s == nil {\n", t.GoName)
		e.printf("\t\tmissing = append(missing, %s)\n", toolConst(t))
		e.printf("\t}\n")
	}
	e.printf("\treturn missing\n}\n")
}

// fieldType returns the Go type of f and whether its tag carries omitempty.
// Optional fields are pointers unless their type already has a nil value.
func fieldType(f Field) (string, bool) {
	typ := goType(f.Type)
	if f.Required {
		return typ, false
	}
	if hasNil(f.Type) {
		return typ, true
	}
	return "*" + typ, true
}

func hasNil(n Node) bool {
	switch n.(type) {
	case Array, Map, Any, Raw, Nullable:
		return true
	default:
		return false
	}
}

func goType(n Node) string {
	switch n := n.(type) {
	case Primitive:
		switch n.Kind {
		case String:
			return "string"
		case Number:
			return "float64"
		case Integer:
			return "int64"
		case Boolean:
			return "bool"
		}
	case Array:
		return "[]" + goType(n.Elem)
	case Map:
		return "map[string]" + goType(n.Value)
	case Nullable:
		if hasNil(n.Inner) {
			return goType(n.Inner)
		}
		return "*" + goType(n.Inner)
	case Ref:
		return n.Name
	case Raw:
		return "json.RawMessage"
	}
	return "any"
}
