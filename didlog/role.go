package didlog

import (
	"encoding/json"

	"go.didvh.dev/didlog/errors"
)

// VerificationRole identifies the verification relationship a verification
// method plays in a DID document. Unlike the conventional DID Core model,
// this is the value carried by a VerificationMethod's "type" field; the
// underlying cryptographic suite is implied by the role (every role but
// keyAgreement is Ed25519; keyAgreement is X25519).
// https://www.w3.org/TR/did-core/#verification-relationships
type VerificationRole int

const (
	// Authentication methods prove the entity is the DID subject or acts
	// on behalf of the DID controller.
	Authentication VerificationRole = iota

	// AssertionMethod methods can be used to assert a statement on behalf
	// of the DID subject.
	AssertionMethod

	// KeyAgreement methods engage in key agreement protocols on behalf of
	// the DID subject.
	KeyAgreement

	// CapabilityInvocation methods invoke capabilities as the DID subject.
	CapabilityInvocation

	// CapabilityDelegation methods grant capabilities as the DID subject
	// to other capability invokers.
	CapabilityDelegation
)

// roleOrder fixes the deterministic iteration order used when assembling
// documents and diffing patches.
var roleOrder = []VerificationRole{
	Authentication,
	AssertionMethod,
	KeyAgreement,
	CapabilityInvocation,
	CapabilityDelegation,
}

// String returns the DID document property name for the role.
func (r VerificationRole) String() string {
	switch r {
	case Authentication:
		return "authentication"
	case AssertionMethod:
		return "assertionMethod"
	case KeyAgreement:
		return "keyAgreement"
	case CapabilityInvocation:
		return "capabilityInvocation"
	case CapabilityDelegation:
		return "capabilityDelegation"
	default:
		return "unknown role"
	}
}

// CryptoKind returns the verification-method cryptosuite implied by this
// role: X25519 for key agreement, Ed25519 for every signing role.
func (r VerificationRole) CryptoKind() VMKind {
	if r == KeyAgreement {
		return KindX25519
	}
	return KindEd25519
}

// MarshalJSON encodes the role using its DID document property name.
func (r VerificationRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes a role from its DID document property name.
func (r *VerificationRole) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := roleFromString(s)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func roleFromString(val string) (VerificationRole, error) {
	for _, r := range roleOrder {
		if r.String() == val {
			return r, nil
		}
	}
	return 0, errors.Errorf("unsupported verification relationship: %s", val)
}

// VMKind identifies the cryptographic key encoding of a verification
// method, implied by its role rather than carried explicitly.
type VMKind int

const (
	// KindEd25519 signing keys, used by every role but keyAgreement.
	KindEd25519 VMKind = iota
	// KindX25519 key-agreement keys.
	KindX25519
)
