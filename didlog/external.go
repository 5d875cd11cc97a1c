package didlog

import (
	"encoding/binary"
	"strings"

	"go.didvh.dev/didlog/errors"
)

// ExternalResolver resolves a verification method whose controller lies
// outside the document being verified - e.g. a VM contributed by an
// external did:key controller (§4.B step 1, §9 "External controller
// resolution"). Pluggable so a host application can supply a richer
// resolver (did:web, a universal-resolver client, a cache); the package
// default, DefaultExternalResolver, performs no I/O and only understands
// did:key.
type ExternalResolver func(id string) (*VerificationMethod, error)

// externalResolver is consulted by verifyEntryProof whenever a proof's
// verificationMethod is not present in the document it purports to
// authorize, on the assumption that it names a VM controlled by some other
// DID. Package-level and swappable, mirroring SetLogger.
var externalResolver ExternalResolver = DefaultExternalResolver

// SetExternalResolver installs the hook used to resolve verification
// methods controlled by a DID outside the document under verification.
// Passing nil is a no-op; it never disables resolution back to the default.
func SetExternalResolver(r ExternalResolver) {
	if r != nil {
		externalResolver = r
	}
}

// Multicodec prefixes used by did:key, https://github.com/multiformats/multicodec
const (
	multicodecEd25519Pub = 0xed
	multicodecX25519Pub  = 0xec
)

// DefaultExternalResolver decodes a did:key verification method id
// ("did:key:<multibase>" or "did:key:<multibase>#<multibase>") directly
// from its embedded multicodec-prefixed public key. No network or disk I/O
// is performed, matching §9's requirement that this hook's default reject
// anything it cannot resolve statically. Any other DID method is rejected;
// callers needing did:web or similar must install their own resolver via
// SetExternalResolver.
func DefaultExternalResolver(id string) (*VerificationMethod, error) {
	const prefix = "did:key:"

	did := id
	if i := strings.IndexByte(id, '#'); i >= 0 {
		did = id[:i]
	}
	if !strings.HasPrefix(did, prefix) {
		return nil, errors.Errorf("external resolver: unsupported DID method in %q", id)
	}

	mb := strings.TrimPrefix(did, prefix)
	raw, err := multibaseDecode(mb)
	if err != nil {
		return nil, errors.Wrap(err, "decode did:key multibase value")
	}

	code, n := binary.Uvarint(raw)
	if n <= 0 {
		return nil, errors.Errorf("did:key %s: invalid multicodec prefix", did)
	}

	var role VerificationRole
	switch code {
	case multicodecEd25519Pub:
		role = Authentication
	case multicodecX25519Pub:
		role = KeyAgreement
	default:
		return nil, errors.Errorf("did:key %s: unsupported multicodec 0x%x", did, code)
	}

	vm := NewVerificationMethod(role, raw[n:])
	vm.Controller = did
	vm.ID = id
	return vm, nil
}
