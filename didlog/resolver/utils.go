package resolver

import "net/http"

const (
	ldContext = "https://w3id.org/did-resolution/v1"

	deactivatedStatus int = http.StatusGone
)

// errToStatus maps a resolution error code to an HTTP status, per the DIF
// HTTP binding.
// https://w3c-ccg.github.io/did-resolution/#bindings-https
func errToStatus(code string) int {
	switch code {
	case ErrInvalidDID:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrRepresentationNotSupported:
		return http.StatusNotAcceptable
	default:
		return http.StatusInternalServerError
	}
}
