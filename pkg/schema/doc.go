// Package schema declares what a valid contact submission looks like.
//
// A Schema is an ordered list of fields. Each field has a Kind and an ordered
// list of Constraints; every constraint carries the message shown to the user
// when it fails. Schemas are plain data: they are built once (either in Go via
// Contact or NewBuilder, or from an OpenAPI request body via FromOpenAPI) and
// never mutated afterwards, so a single value can be shared process-wide.
package schema
