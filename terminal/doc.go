// Package terminal renders the generated tool output types as styled text for
// a terminal: a weather card, a SQL result table and a bar chart summary.
//
// Each renderer checks the producer's contract on the decoded value (a failed
// result, a missing column list) and draws an inline error panel instead of
// failing the message.
package terminal
