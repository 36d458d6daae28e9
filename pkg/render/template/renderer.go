package template

import "io"

// TemplateRenderer is the engine seam page renderers depend on.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
