// Package render defines the renderer contract shared by the HTML and
// terminal front ends, plus helpers for error payloads and hidden inputs.
package render
