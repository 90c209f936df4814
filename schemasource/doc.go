// Package schemasource fetches the tool output schemas published by a backend.
//
// The backend answers GET {base}/tools-schema with
//
//	{"tools": {"<tool name>": {"output": <JSON Schema>}}}
//
// Tools are kept in response order so that code generated from the same response is
// byte-identical across runs.
package schemasource
