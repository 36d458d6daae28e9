package schema

import _ "embed"

const contactOpenAPIName = "contact.openapi.yaml"

//go:embed contact.openapi.yaml
var contactOpenAPI []byte

// ContactOperationID is the operationId of the intake endpoint in the
// embedded OpenAPI description.
const ContactOperationID = "submitContact"

// ContactOpenAPI returns a copy of the embedded OpenAPI description of the
// contact intake endpoint.
func ContactOpenAPI() []byte {
	return append([]byte(nil), contactOpenAPI...)
}

// ContactDocument wraps the embedded description in a Document.
func ContactDocument() Document {
	return MustNewDocument(EmbeddedSource(), contactOpenAPI)
}
