package didlog

import "go.didvh.dev/didlog/errors"

// Error taxonomy surfaced to callers. A failed check of the kind described
// below returns an error satisfying errors.Is(err, ErrXxx) for exactly one
// of these. Other failures, such as an empty log passed to ResolveDID or a
// log entry or patch that cannot be decoded, return errors that match none
// of them.
var (
	// ErrSCIDMismatch: the genesis hash does not match the derived
	// identifier.
	ErrSCIDMismatch = errors.New("scid mismatch")

	// ErrHashMismatch: an entry hash does not match (prev, patch).
	ErrHashMismatch = errors.New("entry hash mismatch")

	// ErrVersionGap: a non-sequential versionId was encountered.
	ErrVersionGap = errors.New("version gap")

	// ErrTimeRegression: versionTime is not strictly increasing.
	ErrTimeRegression = errors.New("version time regression")

	// ErrProofInvalid: a Data Integrity proof failed verification.
	ErrProofInvalid = errors.New("proof invalid")

	// ErrUnauthorizedKey: the signing key is not present in the correct
	// role array of the target document.
	ErrUnauthorizedKey = errors.New("unauthorized key")

	// ErrUnknownVerificationMethod: proof.verificationMethod is
	// unresolvable.
	ErrUnknownVerificationMethod = errors.New("unknown verification method")

	// ErrContextResolution: an unknown JSON-LD context was referenced.
	ErrContextResolution = errors.New("context resolution failed")

	// ErrInvalidState: update attempted on a deactivated log, or create
	// was attempted without an authentication key.
	ErrInvalidState = errors.New("invalid state")
)
