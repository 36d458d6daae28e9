// Package validation applies a schema.Schema to raw form input.
//
// Validation is a pure function of the schema and the input: it never
// returns an error, never mutates its arguments, and produces the same
// Result for the same input. Failures are data, reported per field so a UI
// can show every problem at once.
package validation
