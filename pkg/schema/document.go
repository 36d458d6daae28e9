package schema

import (
	"bytes"
	"errors"
	"strings"
)

// Document is an intake description together with the operation whose
// request body defines the form. New documents target ContactOperationID.
type Document struct {
	source      Source
	operationID string
	raw         []byte
}

func NewDocument(src Source, raw []byte) (Document, error) {
	if src.Kind == "" {
		return Document{}, errors.New("schema: document source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: document " + src.String() + " is empty")
	}
	return Document{source: src, operationID: ContactOperationID, raw: bytes.Clone(raw)}, nil
}

// MustNewDocument panics on error. For embedded payloads and tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// ForOperation retargets the document. Blank ids are ignored.
func (d Document) ForOperation(operationID string) Document {
	if id := strings.TrimSpace(operationID); id != "" {
		d.operationID = id
	}
	return d
}

func (d Document) OperationID() string {
	return d.operationID
}

func (d Document) Source() Source {
	return d.source
}

func (d Document) Raw() []byte {
	return bytes.Clone(d.raw)
}

func (d Document) Location() string {
	return d.source.Location
}
