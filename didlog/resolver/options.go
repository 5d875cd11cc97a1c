package resolver

import "go.didvh.dev/didlog/didlog"

// Encoder instances produce an alternative representation for a resolved
// DID document.
type Encoder interface {
	Encode(doc interface{}) ([]byte, error)
}

// LogProvider retrieves the full log backing a did:log identifier. It
// returns ErrNotFound (wrapped) when no log is registered for the DID.
type LogProvider func(did string) (didlog.DIDLog, error)

// Option configures a new resolver Instance.
type Option func(i *Instance) error

// WithEncoder registers an additional representation encoder for the given
// media type. A default JSON encoder is installed for:
//   - application/ld+json
//   - application/did+ld+json
//   - application/ld+json;profile="https://w3id.org/did-resolution"
func WithEncoder(mime string, enc Encoder) Option {
	return func(i *Instance) error {
		i.encoders[mime] = enc
		return nil
	}
}
