package didlog

import (
	e "golang.org/x/crypto/ed25519"

	"go.didvh.dev/didlog/errors"
)

// VerificationMethod represents a cryptographic key bound to a DID subject.
// https://www.w3.org/TR/did-core/#verification-methods
type VerificationMethod struct {
	// ID is this verification method's identifier, "{controller}#{suffix}"
	// where suffix is the last 8 characters of PublicKeyMultibase.
	ID string `json:"id" yaml:"id"`

	// Role is the verification relationship this method plays in the
	// document. The underlying cryptographic suite (Ed25519 or X25519) is
	// implied by Role, see VerificationRole.CryptoKind.
	Role VerificationRole `json:"type" yaml:"type"`

	// Controller is the DID controlling the corresponding private key.
	Controller string `json:"controller" yaml:"controller"`

	// Extensions carries method-specific metadata beyond the core schema.
	Extensions []Extension `json:"extensions,omitempty" yaml:"extensions,omitempty"`

	// Public is the public key material, multibase (base58btc) encoded.
	Public string `json:"publicKeyMultibase,omitempty" yaml:"publicKeyMultibase,omitempty"`

	// Private carries the corresponding private key material when the
	// caller supplies one for signing purposes. Never serialized as part
	// of a DID document; only used transiently during CreateDID/UpdateDID.
	Private []byte `json:"-" yaml:"-"`
}

// String uses the verification method's ID as its textual representation.
func (vm *VerificationMethod) String() string {
	return vm.ID
}

// Bytes returns the decoded public key material.
func (vm *VerificationMethod) Bytes() ([]byte, error) {
	return multibaseDecode(vm.Public)
}

// idSuffix returns the last 8 characters of the multibase-encoded public
// key, used to derive the verification method ID.
func (vm *VerificationMethod) idSuffix() string {
	if len(vm.Public) <= 8 {
		return vm.Public
	}
	return vm.Public[len(vm.Public)-8:]
}

// Sign produces a raw Ed25519 signature over data using the verification
// method's private key. Only signing-capable (non key-agreement) methods
// can sign.
func (vm *VerificationMethod) Sign(data []byte) ([]byte, error) {
	if vm.Role.CryptoKind() != KindEd25519 {
		return nil, errors.Errorf("verification method %s cannot sign: key-agreement key", vm.ID)
	}
	if len(vm.Private) != e.PrivateKeySize {
		return nil, errors.Errorf("verification method %s has no usable private key", vm.ID)
	}
	return e.Sign(e.PrivateKey(vm.Private), data), nil
}

// Verify checks a raw Ed25519 signature against data using the
// verification method's public key.
func (vm *VerificationMethod) Verify(data, signature []byte) bool {
	if vm.Role.CryptoKind() != KindEd25519 {
		return false
	}
	pub, err := vm.Bytes()
	if err != nil || len(pub) != e.PublicKeySize {
		return false
	}
	return e.Verify(e.PublicKey(pub), data, signature)
}

// AddExtension registers (or replaces, if the id/version pair already
// exists) additional contextual information on the verification method.
func (vm *VerificationMethod) AddExtension(ext Extension) {
	for i, ee := range vm.Extensions {
		if ee.ID == ext.ID && ee.Version == ext.Version {
			vm.Extensions[i] = ext
			return
		}
	}
	vm.Extensions = append(vm.Extensions, ext)
}

// NewVerificationMethod builds a verification method record for the given
// role from public key material already held by the caller. Generating the
// underlying keypair is the caller's responsibility; this only encodes it.
// The Controller and ID fields are left blank for the document builder to
// assign (controller defaults to the enclosing DID; ID is derived from the
// encoded public key).
func NewVerificationMethod(role VerificationRole, public []byte) *VerificationMethod {
	return &VerificationMethod{
		Role:   role,
		Public: multibaseEncode(public),
	}
}
