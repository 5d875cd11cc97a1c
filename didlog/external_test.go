package didlog

import (
	"encoding/binary"
	"testing"
	"time"

	tdd "github.com/stretchr/testify/assert"
	e "golang.org/x/crypto/ed25519"
)

// didKeyID builds a did:key identifier (and its self-referencing fragment
// form) from a raw Ed25519 public key, the same way a real did:key producer
// would: multicodec-prefix the key, multibase-encode it.
func didKeyID(pub e.PublicKey) string {
	prefixed := make([]byte, binary.MaxVarintLen64+len(pub))
	n := binary.PutUvarint(prefixed, multicodecEd25519Pub)
	copy(prefixed[n:], pub)
	mb := multibaseEncode(prefixed[:n+len(pub)])
	return "did:key:" + mb + "#" + mb
}

// TestVerifyEntryProofResolvesExternalController exercises §4.B step 1 /
// §9's external-controller resolver hook: a document that references (but
// does not embed) a verification method controlled by a did:key DID.
func TestVerifyEntryProofResolvesExternalController(t *testing.T) {
	assert := tdd.New(t)

	pub, priv, err := e.GenerateKey(nil)
	assert.Nil(err)
	vmID := didKeyID(pub)

	resultDoc := &DIDDocument{
		ID:             "did:log:abcdefgh",
		Context:        []string{contextDID},
		Authentication: []VMRef{{Ref: vmID}},
	}
	docCanon, err := canonicalize(resultDoc)
	assert.Nil(err)

	signer := NewVerificationMethod(Authentication, pub)
	signer.ID = vmID
	signer.Private = priv

	proof, err := ProduceProof(signer, docCanon, "authentication", time.Now())
	assert.Nil(err)

	entry := LogEntry{VersionID: 1, VersionTime: time.Now(), Proof: proof}
	assert.Nil(verifyEntryProof(resultDoc, entry))
}

// TestVerifyEntryProofRejectsUnresolvableExternalController confirms the
// default resolver only understands did:key and otherwise fails closed.
func TestVerifyEntryProofRejectsUnresolvableExternalController(t *testing.T) {
	assert := tdd.New(t)

	auth := newAuthVM()
	vmID := "did:web:example.com#key-1"

	resultDoc := &DIDDocument{
		ID:             "did:log:abcdefgh",
		Context:        []string{contextDID},
		Authentication: []VMRef{{Ref: vmID}},
	}
	docCanon, err := canonicalize(resultDoc)
	assert.Nil(err)

	signer := &VerificationMethod{ID: vmID, Role: Authentication, Public: auth.Public, Private: auth.Private}
	proof, err := ProduceProof(signer, docCanon, "authentication", time.Now())
	assert.Nil(err)

	entry := LogEntry{VersionID: 1, VersionTime: time.Now(), Proof: proof}
	assert.ErrorIs(verifyEntryProof(resultDoc, entry), ErrUnknownVerificationMethod)
}

// TestSetExternalResolverOverridesDefault confirms the resolver hook is
// pluggable: installing a custom resolver changes resolution without
// touching verifyEntryProof itself.
func TestSetExternalResolverOverridesDefault(t *testing.T) {
	assert := tdd.New(t)
	defer SetExternalResolver(DefaultExternalResolver)

	auth := newAuthVM()
	vmID := "did:example:registry#key-1"

	called := false
	SetExternalResolver(func(id string) (*VerificationMethod, error) {
		called = true
		assert.Equal(vmID, id)
		return &VerificationMethod{ID: vmID, Role: Authentication, Public: auth.Public}, nil
	})

	resultDoc := &DIDDocument{
		ID:             "did:log:abcdefgh",
		Context:        []string{contextDID},
		Authentication: []VMRef{{Ref: vmID}},
	}
	docCanon, err := canonicalize(resultDoc)
	assert.Nil(err)

	signer := &VerificationMethod{ID: vmID, Role: Authentication, Public: auth.Public, Private: auth.Private}
	proof, err := ProduceProof(signer, docCanon, "authentication", time.Now())
	assert.Nil(err)

	entry := LogEntry{VersionID: 1, VersionTime: time.Now(), Proof: proof}
	assert.Nil(verifyEntryProof(resultDoc, entry))
	assert.True(called)
}
