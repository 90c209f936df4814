// Package toolserver is a small tool host that publishes the output schema of
// every registered tool and executes tools over HTTP.
//
// Tools are built from typed Go functions with NewTool: the argument schema is
// reflected from the argument type and enforced on every call, and the output
// schema is reflected from the result type, with nested structs placed under
// $defs. A Registry keeps tools in registration order and runs them with a
// timeout, a concurrency limit and panic recovery. Middlewares added with
// Registry.Use wrap every tool; WithOutputCheck holds each result to the output
// schema the tool publishes.
//
// Handler serves two routes:
//
//	GET  /tools-schema   {"tools": {"<name>": {"output": <JSON Schema>}}}
//	POST /tools/{name}   JSON arguments in, tool output out
//
// Errors follow two classes: ClientError (bad input, safe to show the caller,
// HTTP 400) and SystemError (internal failure, message hidden, HTTP 500).
package toolserver
