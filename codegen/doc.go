// Package codegen compiles tool output JSON Schemas into Go source.
//
// A generation run fetches the tools schema document, compiles every tool that
// declares an output schema into an intermediate representation (Node, Decl), and
// emits one gofmt-ed file holding the types, a ToolName enumeration, a Registry of
// primary type names and a Renderers binding struct for package toolview.
//
// Auxiliary types are always prefixed with the tool's Go name, so two tools that
// define nested objects or $defs with the same name never shadow each other.
//
// Runs are all-or-nothing: any fetch or compile failure aborts before the output
// file is touched, and the file is replaced atomically.
package codegen
