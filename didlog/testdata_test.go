package didlog

import (
	"crypto/ecdh"
	"crypto/rand"

	e "golang.org/x/crypto/ed25519"
)

// newAuthVM returns a fresh Ed25519 authentication verification method with
// a usable private key, for use as both the document's key material and the
// signer passed to CreateDID/UpdateDID.
func newAuthVM() *VerificationMethod {
	pub, priv, err := e.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	vm := NewVerificationMethod(Authentication, pub)
	vm.Private = priv
	return vm
}

// newAgreementVM returns a fresh X25519 key-agreement verification method.
// Its Private field is left unset since key-agreement keys never sign.
func newAgreementVM() *VerificationMethod {
	priv, err := ecdh.X25519().GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return NewVerificationMethod(KeyAgreement, priv.PublicKey().Bytes())
}
