package codegen

// Node is a type in the intermediate representation of a compiled schema.
// The concrete types are Primitive, Array, Map, Nullable, Ref, Any and Raw.
type Node interface {
	isNode()
}

// PrimitiveKind enumerates JSON scalar types.
type PrimitiveKind int

const (
	String PrimitiveKind = iota
	Number
	Integer
	Boolean
)

func (k PrimitiveKind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Primitive is a JSON scalar. Enumerated strings collapse to String.
type Primitive struct{ Kind PrimitiveKind }

// Array is a sequence of Elem.
type Array struct{ Elem Node }

// Map is an object without declared properties, keyed by string.
type Map struct{ Value Node }

// Nullable allows JSON null in addition to Inner.
type Nullable struct{ Inner Node }

// Ref names a Decl of the same compilation.
type Ref struct{ Name string }

// Any accepts any JSON value.
type Any struct{}

// Raw is a union of several non-null types, kept as undecoded JSON.
type Raw struct{}

func (Primitive) isNode() {}
func (Array) isNode()     {}
func (Map) isNode()       {}
func (Nullable) isNode()  {}
func (Ref) isNode()       {}
func (Any) isNode()       {}
func (Raw) isNode()       {}

// Field is one property of a Decl.
type Field struct {
	JSONName string
	GoName   string
	Type     Node
	Required bool
	Doc      string
}

// Decl is a named record type compiled from an object schema.
// Open is false only when the schema sets additionalProperties to false; decoding
// tolerates unknown fields either way.
type Decl struct {
	Name   string
	Path   string // JSON Pointer of the object schema within the tool's schema
	Doc    string
	Fields []Field
	Open   bool
}

// ToolTypes is the compilation result for one tool.
type ToolTypes struct {
	Tool    string  // tool name as published by the schema source
	GoName  string  // tool name in Go form, the prefix of every Decl
	Primary string  // name of the Decl compiled from the top-level schema
	Decls   []*Decl // primary first, then auxiliaries in discovery order
}

// Decl returns the declaration named name, or nil.
func (t *ToolTypes) Decl(name string) *Decl {
	for _, d := range t.Decls {
		if d.Name == name {
			return d
		}
	}
	return nil
}
