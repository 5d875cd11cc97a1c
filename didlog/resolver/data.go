package resolver

import (
	"net/http"
	"strings"

	"go.didvh.dev/didlog/didlog"
)

// Common content-type IANA values.
const (
	// ContentTypeLD instructs the resolution endpoint to return standard
	// JSON-LD data.
	ContentTypeLD = "application/ld+json"

	// ContentTypeDocument instructs the resolution endpoint to return the
	// obtained DID document as result.
	ContentTypeDocument = "application/did+ld+json"

	// ContentTypeWithProfile instructs the resolution endpoint to return a
	// complete resolution response structure as result. Used by default
	// when no `Accept` header value is provided.
	// https://w3c-ccg.github.io/did-resolution/#output-didresolutionresult
	ContentTypeWithProfile = `application/ld+json;profile="https://w3id.org/did-resolution"`
)

// Common error codes.
// https://w3c-ccg.github.io/did-resolution/#errors
const (
	ErrInternal                   = "internalError"
	ErrNotFound                   = "notFound"
	ErrInvalidDID                 = "invalidDid"
	ErrRepresentationNotSupported = "representationNotSupported"
)

// Result obtained from a resolution process.
// https://w3c-ccg.github.io/did-resolution/#output-didresolutionresult
type Result struct {
	// JSON-LD context statement for the result document.
	Context []interface{} `json:"@context" yaml:"-"`

	// Resolved DID document.
	Document *didlog.DIDDocument `json:"didDocument,omitempty"`

	// DID document metadata.
	DocumentMetadata *didlog.DocumentMetadata `json:"didDocumentMetadata,omitempty"`

	// Resolution process metadata.
	ResolutionMetadata *ResolutionMetadata `json:"didResolutionMetadata,omitempty"`

	// Representation obtained during a ResolveRepresentation call.
	Representation []byte `json:"-"`
}

// ResolutionMetadata describes the resolution process itself, as opposed to
// the resolved document.
type ResolutionMetadata struct {
	ContentType string `json:"contentType"`
	Retrieved   string `json:"retrieved"`
	Error       string `json:"error,omitempty"`
}

// ResolutionOptions carries additional settings for a resolution request.
type ResolutionOptions struct {
	// Accept is the caller's preferred representation media type. If not
	// provided, ContentTypeWithProfile is used.
	Accept string `json:"accept"`

	// VersionID, when set, resolves the document as of that log entry
	// instead of the latest. did:log has no dedicated versionTime query
	// parameter binding; callers resolve the full log and pick a version.
	VersionID int `json:"versionId,omitempty"`
}

// Validate loads sensible defaults for unset options.
func (ro *ResolutionOptions) Validate() error {
	if ro.Accept == "" || ro.Accept == "*/*" {
		ro.Accept = ContentTypeWithProfile
	}
	if ro.Accept == "application/json" {
		ro.Accept = ContentTypeLD
	}
	return nil
}

// FromRequest loads resolution options from an incoming HTTP request.
func (ro *ResolutionOptions) FromRequest(req *http.Request) {
	ro.Accept = strings.Split(req.Header.Get("Accept"), ",")[0]
}
