package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const (
	defsPrefix        = "#/$defs/"
	definitionsPrefix = "#/definitions/"
	primarySuffix     = "Output"
	auxSeparator      = "_"
)

// Compile compiles one tool's output schema. The schema must be a valid JSON Schema
// whose top level describes an object with properties. The primary Decl is named
// <GoName(tool)>Output. Auxiliary Decls are named <GoName(tool)>_<Name>, where Name
// is the GoName of a $defs entry, or the parent name plus the property name for
// inline objects (Output for the primary). GoName never yields an underscore, so
// names from different tools cannot collide unless the tools' Go names do.
//
// Any construct the compiler cannot represent fails the whole tool with a
// *SchemaError (errors.Is ErrUncompilableSchema).
func Compile(tool string, schema []byte) (*ToolTypes, error) {
	if tool == "" {
		return nil, &SchemaError{Tool: tool, Path: "#", Reason: "empty tool name"}
	}
	if err := validateSchema(tool, schema); err != nil {
		return nil, err
	}
	var root schemaNode
	if err := json.Unmarshal(schema, &root); err != nil {
		return nil, &SchemaError{Tool: tool, Path: "#", Reason: "unsupported schema shape", Err: err}
	}
	c := &compiler{
		tool:      tool,
		prefix:    GoName(tool),
		root:      &root,
		declared:  make(map[string]string),
		resolved:  make(map[string]Node),
		resolving: make(map[string]bool),
		defNames:  make(map[string]string),
	}
	primary := c.prefix + primarySuffix
	if root.Ref != "" {
		c.defNames[root.Ref] = primary
	}
	n, err := c.node(&root, "#", primary)
	if err != nil {
		return nil, err
	}
	ref, ok := n.(Ref)
	if !ok {
		return nil, c.fail("#", "top-level output schema must be an object with properties")
	}
	return &ToolTypes{Tool: tool, GoName: c.prefix, Primary: ref.Name, Decls: c.decls}, nil
}

// validateSchema checks schema against its meta-schema and resolves its local references.
func validateSchema(tool string, schema []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schema))
	if err != nil {
		return &SchemaError{Tool: tool, Path: "#", Reason: "invalid JSON", Err: err}
	}
	loc := "https://toolview.invalid/schemas/" + GoName(tool) + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(loc, doc); err != nil {
		return &SchemaError{Tool: tool, Path: "#", Reason: "invalid schema", Err: err}
	}
	if _, err := c.Compile(loc); err != nil {
		return &SchemaError{Tool: tool, Path: "#", Reason: "invalid schema", Err: err}
	}
	return nil
}

type compiler struct {
	tool      string
	prefix    string
	root      *schemaNode
	decls     []*Decl
	declared  map[string]string // decl name -> schema path that declared it
	resolved  map[string]Node   // $ref -> compiled node
	resolving map[string]bool   // $refs on the current resolution stack
	defNames  map[string]string // $ref -> forced decl name
}

func (c *compiler) fail(path, format string, args ...any) error {
	return &SchemaError{Tool: c.tool, Path: path, Reason: fmt.Sprintf(format, args...)}
}

// node compiles s; nameHint names the Decl created if s is an object with properties.
func (c *compiler) node(s *schemaNode, path, nameHint string) (Node, error) {
	if s == nil {
		return Any{}, nil
	}
	if s.never {
		return nil, c.fail(path, "boolean schema false is not supported")
	}
	if kw := s.unsupported(); kw != "" {
		return nil, c.fail(path, "keyword %s is not supported", kw)
	}
	if s.Ref != "" {
		return c.ref(s.Ref, path)
	}
	if len(s.AllOf) > 0 {
		if len(s.AllOf) > 1 || len(s.Type) > 0 || s.Properties != nil {
			return nil, c.fail(path, "allOf with more than one schema is not supported")
		}
		return c.node(s.AllOf[0], path+"/allOf/0", nameHint)
	}
	if len(s.AnyOf) > 0 {
		return c.union(s.AnyOf, path+"/anyOf", nameHint)
	}
	if len(s.OneOf) > 0 {
		return c.union(s.OneOf, path+"/oneOf", nameHint)
	}

	types, nullable := s.nonNullTypes()
	var n Node
	var err error
	switch {
	case len(types) > 1:
		n = Raw{}
	case len(types) == 1:
		n, err = c.typed(s, types[0], path, nameHint)
	default:
		n, err = c.inferred(s, path, nameHint)
	}
	if err != nil {
		return nil, err
	}
	return nullableOf(n, nullable), nil
}

func nullableOf(n Node, nullable bool) Node {
	if !nullable {
		return n
	}
	switch n.(type) {
	case Any, Raw, Nullable:
		return n
	}
	return Nullable{Inner: n}
}

func (c *compiler) typed(s *schemaNode, typ, path, nameHint string) (Node, error) {
	switch typ {
	case "string":
		return Primitive{Kind: String}, nil
	case "number":
		return Primitive{Kind: Number}, nil
	case "integer":
		return Primitive{Kind: Integer}, nil
	case "boolean":
		return Primitive{Kind: Boolean}, nil
	case "array":
		return c.array(s, path, nameHint)
	case "object":
		return c.object(s, path, nameHint)
	default:
		return nil, c.fail(path, "unknown type %q", typ)
	}
}

// inferred handles schemas without "type": the shape follows the keywords present.
func (c *compiler) inferred(s *schemaNode, path, nameHint string) (Node, error) {
	switch {
	case s.Properties != nil || s.AdditionalProperties != nil:
		return c.object(s, path, nameHint)
	case s.Items != nil:
		return c.array(s, path, nameHint)
	case len(s.Enum) > 0:
		return enumNode(s.Enum), nil
	case len(s.Const) > 0:
		var v any
		if err := json.Unmarshal(s.Const, &v); err != nil {
			return nil, c.fail(path, "invalid const")
		}
		return enumNode([]any{v}), nil
	default:
		return Any{}, nil
	}
}

// enumNode types an enum without "type" by its values: all strings collapse to
// String, all booleans to Boolean, anything else stays Any.
func enumNode(values []any) Node {
	var strs, bools, nulls int
	for _, v := range values {
		switch v.(type) {
		case string:
			strs++
		case bool:
			bools++
		case nil:
			nulls++
		}
	}
	var n Node = Any{}
	switch {
	case strs > 0 && strs+nulls == len(values):
		n = Primitive{Kind: String}
	case bools > 0 && bools+nulls == len(values):
		n = Primitive{Kind: Boolean}
	}
	return nullableOf(n, nulls > 0)
}

func (c *compiler) array(s *schemaNode, path, nameHint string) (Node, error) {
	elem, err := c.node(s.Items, path+"/items", nameHint+"Item")
	if err != nil {
		return nil, err
	}
	return Array{Elem: elem}, nil
}

func (c *compiler) object(s *schemaNode, path, nameHint string) (Node, error) {
	if s.Properties == nil || s.Properties.Len() == 0 {
		ap := s.AdditionalProperties
		if ap == nil || ap.never {
			return Map{Value: Any{}}, nil
		}
		value, err := c.node(ap, path+"/additionalProperties", nameHint+"Value")
		if err != nil {
			return nil, err
		}
		return Map{Value: value}, nil
	}

	decl := &Decl{
		Name: nameHint,
		Path: path,
		Doc:  docOf(s),
		Open: s.AdditionalProperties == nil || !s.AdditionalProperties.never,
	}
	if err := c.declare(decl, path); err != nil {
		return nil, err
	}
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}
	goNames := make(map[string]string, s.Properties.Len())
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		propPath := path + "/properties/" + pair.Key
		if !validTag(pair.Key) {
			return nil, c.fail(propPath, "property name %q cannot be used as a JSON field tag", pair.Key)
		}
		goName := GoName(pair.Key)
		if other, dup := goNames[goName]; dup {
			return nil, c.fail(propPath, "properties %q and %q both map to Go field %s", other, pair.Key, goName)
		}
		goNames[goName] = pair.Key
		typ, err := c.node(pair.Value, propPath, c.child(nameHint, goName))
		if err != nil {
			return nil, err
		}
		var doc string
		if pair.Value != nil {
			doc = strings.TrimSpace(pair.Value.Description)
		}
		decl.Fields = append(decl.Fields, Field{
			JSONName: pair.Key,
			GoName:   goName,
			Type:     typ,
			Required: required[pair.Key],
			Doc:      doc,
		})
	}
	return Ref{Name: decl.Name}, nil
}

// child names an inline type nested under the type named parent.
func (c *compiler) child(parent, suffix string) string {
	if strings.HasPrefix(parent, c.prefix+auxSeparator) {
		return parent + suffix
	}
	return c.prefix + auxSeparator + strings.TrimPrefix(parent, c.prefix) + suffix
}

// validTag reports whether encoding/json honors name as a field tag name.
func validTag(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", r):
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			return false
		}
	}
	return true
}

func (c *compiler) declare(d *Decl, path string) error {
	if other, dup := c.declared[d.Name]; dup {
		return c.fail(path, "type name %s is already generated for %s", d.Name, other)
	}
	c.declared[d.Name] = path
	c.decls = append(c.decls, d)
	return nil
}

// union compiles anyOf/oneOf. One non-null branch plus an optional null branch is a
// nullable; several non-null branches become Raw.
func (c *compiler) union(branches []*schemaNode, path, nameHint string) (Node, error) {
	var nullable bool
	var rest []int
	for i, b := range branches {
		if b.isNullOnly() {
			nullable = true
			continue
		}
		rest = append(rest, i)
	}
	switch len(rest) {
	case 0:
		return Any{}, nil
	case 1:
		i := rest[0]
		n, err := c.node(branches[i], fmt.Sprintf("%s/%d", path, i), nameHint)
		if err != nil {
			return nil, err
		}
		return nullableOf(n, nullable), nil
	default:
		// Branches are still walked so unsupported constructs inside them are reported.
		for _, i := range rest {
			if err := c.check(branches[i], fmt.Sprintf("%s/%d", path, i)); err != nil {
				return nil, err
			}
		}
		return Raw{}, nil
	}
}

// check rejects unsupported keywords and unresolvable references in a subtree
// that is not compiled into Decls.
func (c *compiler) check(s *schemaNode, path string) error {
	if s == nil {
		return nil
	}
	if s.never {
		return nil
	}
	if kw := s.unsupported(); kw != "" {
		return c.fail(path, "keyword %s is not supported", kw)
	}
	if s.Ref != "" {
		if _, _, err := c.lookupDef(s.Ref, path); err != nil {
			return err
		}
	}
	if s.Properties != nil {
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if err := c.check(pair.Value, path+"/properties/"+pair.Key); err != nil {
				return err
			}
		}
	}
	if err := c.check(s.Items, path+"/items"); err != nil {
		return err
	}
	for _, group := range []struct {
		name     string
		branches []*schemaNode
	}{{"anyOf", s.AnyOf}, {"oneOf", s.OneOf}, {"allOf", s.AllOf}} {
		for i, b := range group.branches {
			if err := c.check(b, fmt.Sprintf("%s/%s/%d", path, group.name, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

// lookupDef resolves a local $defs/definitions reference.
func (c *compiler) lookupDef(ref, path string) (string, *schemaNode, error) {
	var name string
	defs := c.root.Defs
	switch {
	case strings.HasPrefix(ref, defsPrefix):
		name = strings.TrimPrefix(ref, defsPrefix)
	case strings.HasPrefix(ref, definitionsPrefix):
		name = strings.TrimPrefix(ref, definitionsPrefix)
		defs = c.root.Definitions
	default:
		return "", nil, c.fail(path, "$ref %q is not a local $defs or definitions reference", ref)
	}
	name = unescapePointer(name)
	if strings.Contains(name, "/") || defs == nil {
		return "", nil, c.fail(path, "unresolved $ref %q", ref)
	}
	def, ok := defs.Get(name)
	if !ok {
		return "", nil, c.fail(path, "unresolved $ref %q", ref)
	}
	return name, def, nil
}

func (c *compiler) ref(ref, path string) (Node, error) {
	if n, ok := c.resolved[ref]; ok {
		return n, nil
	}
	if c.resolving[ref] {
		return nil, c.fail(path, "circular $ref %q", ref)
	}
	name, def, err := c.lookupDef(ref, path)
	if err != nil {
		return nil, err
	}
	hint, ok := c.defNames[ref]
	if !ok {
		hint = c.prefix + auxSeparator + GoName(name)
	}
	c.resolving[ref] = true
	n, err := c.node(def, ref, hint)
	delete(c.resolving, ref)
	if err != nil {
		return nil, err
	}
	c.resolved[ref] = n
	return n, nil
}

func docOf(s *schemaNode) string {
	if s.Description != "" {
		return strings.TrimSpace(s.Description)
	}
	return strings.TrimSpace(s.Title)
}
