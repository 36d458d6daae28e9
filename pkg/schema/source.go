package schema

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// SourceKind says how Load reaches an OpenAPI description of the intake
// endpoint.
type SourceKind string

const (
	SourceKindEmbedded SourceKind = "embedded"
	SourceKindFile     SourceKind = "file"
	SourceKindFS       SourceKind = "fs"
	SourceKindURL      SourceKind = "url"
)

// Source names an intake description.
type Source struct {
	Kind     SourceKind
	Location string
}

func (s Source) String() string {
	return string(s.Kind) + ":" + s.Location
}

// EmbeddedSource points at the description compiled into the package.
func EmbeddedSource() Source {
	return Source{Kind: SourceKindEmbedded, Location: contactOpenAPIName}
}

func SourceFromFile(p string) Source {
	return Source{Kind: SourceKindFile, Location: filepath.Clean(p)}
}

// SourceFromFS names an entry of LoadOptions.FileSystem.
func SourceFromFS(name string) Source {
	return Source{Kind: SourceKindFS, Location: path.Clean(strings.TrimPrefix(name, "/"))}
}

// SourceFromURL accepts absolute http and https URLs.
func SourceFromURL(raw string) (Source, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Source{}, fmt.Errorf("schema: source url %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Source{}, fmt.Errorf("schema: source url %q is not an absolute http(s) url", raw)
	}
	return Source{Kind: SourceKindURL, Location: u.String()}, nil
}

// ParseSource maps a command-line reference onto a Source. Empty means the
// embedded description, http(s) references are URLs and anything else is a
// file path.
func ParseSource(ref string) (Source, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return EmbeddedSource(), nil
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return SourceFromURL(ref)
	default:
		return SourceFromFile(ref), nil
	}
}
