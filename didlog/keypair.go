package didlog

import (
	edkp "go.didvh.dev/didlog/crypto/ed25519"
	xkp "go.didvh.dev/didlog/crypto/x25519"
)

// NewSigningVerificationMethod builds a verification method for a signing
// role (authentication, assertionMethod, capabilityInvocation, or
// capabilityDelegation) from an Ed25519 key pair produced by
// go.didvh.dev/didlog/crypto/ed25519 - the locked-memory key management
// primitive callers are expected to generate key material with before
// handing a VerificationMethod to CreateDID/UpdateDID (§1 scopes keypair
// generation itself out of the core, but not the bridge between the two).
func NewSigningVerificationMethod(role VerificationRole, kp *edkp.KeyPair) *VerificationMethod {
	pub := kp.PublicKey()
	vm := NewVerificationMethod(role, pub[:])
	vm.Private = append([]byte(nil), kp.PrivateKey()...)
	return vm
}

// NewKeyAgreementVerificationMethod builds a keyAgreement verification
// method from an X25519 key pair produced by
// go.didvh.dev/didlog/crypto/x25519. Key-agreement methods never sign, so
// no private key material is carried on the resulting VerificationMethod.
func NewKeyAgreementVerificationMethod(kp *xkp.KeyPair) *VerificationMethod {
	pub := kp.PublicKey()
	return NewVerificationMethod(KeyAgreement, pub[:])
}
