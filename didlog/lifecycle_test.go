package didlog

import (
	"bytes"
	"testing"
	"time"

	tdd "github.com/stretchr/testify/assert"
	derrors "go.didvh.dev/didlog/errors"
)

func TestCreateDIDRequiresSigningKey(t *testing.T) {
	assert := tdd.New(t)
	_, err := CreateDID(CreateOptions{})
	assert.ErrorIs(err, ErrInvalidState)
}

func TestCreateDIDRequiresAuthenticationKey(t *testing.T) {
	assert := tdd.New(t)
	agreement := newAgreementVM()
	_, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{agreement},
		SigningKey: agreement,
	})
	assert.Error(err)
}

func TestCreateDIDGenesis(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()

	res, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)
	assert.NotNil(res)
	assert.Len(res.Log, 1)
	assert.Equal(1, res.Log[0].VersionID)
	assert.True(res.Document.HasAuthentication())

	parsed, err := ParseDID(res.DID)
	assert.Nil(err)
	assert.Equal(res.Log[0].EntryHash, parsed.SCID)

	// the SCID is self-certifying: resolving the genesis entry alone
	// reproduces the document and validates its own proof.
	resolved, err := ResolveDID(res.Log, 0)
	assert.Nil(err)
	assert.Equal(res.DID, resolved.Document.ID)
	assert.False(resolved.Metadata.Deactivated)
}

func TestCreateDIDWithDomain(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	res, err := CreateDID(CreateOptions{
		Domain:     "migrated.example.com",
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)
	parsed, err := ParseDID(res.DID)
	assert.Nil(err)
	assert.Equal("migrated.example.com", parsed.Domain)
}

func TestUpdateDIDAppendsEntry(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)

	newKey := newAuthVM()
	updated, err := UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        []*VerificationMethod{auth, newKey},
		SigningKey: auth,
	})
	assert.Nil(err)
	assert.Len(updated.Log, 2)
	assert.Equal(2, updated.Log[1].VersionID)
	assert.True(updated.Log[1].VersionTime.After(updated.Log[0].VersionTime))

	resolved, err := ResolveDID(updated.Log, 0)
	assert.Nil(err)
	assert.Len(resolved.Document.VerificationMethod, 2)
	assert.Equal(updated.Log[0].VersionTime, resolved.Metadata.Created)
	assert.Equal(updated.Log[1].VersionTime, resolved.Metadata.Updated)
}

func TestUpdateDIDMigratesDomain(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		Domain:     "example.com",
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)

	newDomain := "migrated.example.com"
	updated, err := UpdateDID(UpdateOptions{
		Log:        created.Log,
		Domain:     &newDomain,
		VMs:        []*VerificationMethod{auth},
		Services:   []Service{{Type: "LinkedVerifiablePresentation", ServiceEndpoint: "https://migrated.example.com/vp"}},
		SigningKey: auth,
	})
	assert.Nil(err)
	assert.Contains(updated.DID, "migrated:example:com")
	assert.Len(updated.Document.Service, 1)

	// the migration must survive a full replay from genesis, not just the
	// in-memory result UpdateDID returns directly.
	resolved, err := ResolveDID(updated.Log, 0)
	assert.Nil(err)
	assert.Equal(updated.DID, resolved.Document.ID)
	assert.Len(resolved.Document.Service, 1)
}

func TestUpdateDIDRejectsUnauthorizedKey(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)

	impostor := newAuthVM()
	_, err = UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        []*VerificationMethod{auth},
		SigningKey: impostor,
	})
	assert.ErrorIs(err, ErrUnauthorizedKey)
}

func TestUpdateDIDRejectsEmptyLog(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	_, err := UpdateDID(UpdateOptions{SigningKey: auth})
	assert.ErrorIs(err, ErrInvalidState)
}

func TestUpdateDeactivatedDocumentIsRejected(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)

	// deactivate by dropping every authentication method.
	deactivated, err := UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        nil,
		SigningKey: auth,
	})
	assert.Nil(err)

	resolved, err := ResolveDID(deactivated.Log, 0)
	assert.Nil(err)
	assert.True(resolved.Metadata.Deactivated)

	_, err = UpdateDID(UpdateOptions{
		Log:        deactivated.Log,
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.ErrorIs(err, ErrInvalidState)
}

func TestUpdateDIDRotatesSoleSigningKeyInTwoUpdates(t *testing.T) {
	assert := tdd.New(t)
	oldKey := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{oldKey},
		SigningKey: oldKey,
	})
	assert.Nil(err)

	// replacing oldKey with newKey in a single update signed by newKey is
	// rejected: UpdateDID requires the signer to be an authentication method
	// of D_prev, and newKey is not.
	newKey := newAuthVM()
	rotated, err := UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        []*VerificationMethod{newKey},
		SigningKey: newKey,
	})
	assert.Error(err)
	_ = rotated

	// first update: oldKey, valid in D_prev and kept in D_new, signs an
	// update that adds newKey alongside it.
	rotated, err = UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        []*VerificationMethod{oldKey, newKey},
		SigningKey: oldKey,
	})
	assert.Nil(err)
	assert.Len(rotated.Document.VerificationMethod, 2)

	// second update: drops oldKey and signs with newKey, which is an
	// authentication method of both D_prev and D_new, leaving newKey as the
	// sole key.
	final, err := UpdateDID(UpdateOptions{
		Log:        rotated.Log,
		VMs:        []*VerificationMethod{newKey},
		SigningKey: newKey,
	})
	assert.Nil(err)

	resolved, err := ResolveDID(final.Log, 0)
	assert.Nil(err)
	assert.Len(resolved.Document.VerificationMethod, 1)
	assert.Equal(newKey.ID, resolved.Document.VerificationMethod[0].ID)
}

func TestResolveDIDDetectsTamperedPatch(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)

	newKey := newAuthVM()
	updated, err := UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        []*VerificationMethod{auth, newKey},
		SigningKey: auth,
	})
	assert.Nil(err)

	tampered := make(DIDLog, len(updated.Log))
	copy(tampered, updated.Log)
	tampered[1].Patch = append(bytes.TrimSuffix(tampered[1].Patch, []byte("]")), []byte(`,{"op":"add","path":"/alsoKnownAs","value":["https://evil.example"]}]`)...)

	_, err = ResolveDID(tampered, 0)
	assert.ErrorIs(err, ErrHashMismatch)
}

func TestResolveDIDDetectsVersionGap(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)
	newKey := newAuthVM()
	updated, err := UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        []*VerificationMethod{auth, newKey},
		SigningKey: auth,
	})
	assert.Nil(err)

	gapped := make(DIDLog, len(updated.Log))
	copy(gapped, updated.Log)
	gapped[1].VersionID = 3

	_, err = ResolveDID(gapped, 0)
	assert.ErrorIs(err, ErrVersionGap)
}

func TestResolveDIDAtVersion(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)

	newKey := newAuthVM()
	updated, err := UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        []*VerificationMethod{auth, newKey},
		SigningKey: auth,
	})
	assert.Nil(err)

	atGenesis, err := ResolveDID(updated.Log, 1)
	assert.Nil(err)
	assert.Equal(1, atGenesis.Metadata.VersionID)
	assert.Len(atGenesis.Document.VerificationMethod, 1)

	atLatest, err := ResolveDID(updated.Log, 0)
	assert.Nil(err)
	assert.Equal(2, atLatest.Metadata.VersionID)
}

func TestResolveDIDRejectsEmptyLog(t *testing.T) {
	assert := tdd.New(t)
	_, err := ResolveDID(nil, 0)
	assert.Error(err)
}

func TestUpdateDIDAddsKeyAgreementAndSecondService(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		Domain:     "example.com",
		VMs:        []*VerificationMethod{auth},
		Services:   []Service{{Type: "LinkedVerifiablePresentation", ServiceEndpoint: "https://example.com/vp"}},
		SigningKey: auth,
	})
	assert.Nil(err)

	agreement := newAgreementVM()
	updated, err := UpdateDID(UpdateOptions{
		Log: created.Log,
		VMs: []*VerificationMethod{auth, agreement},
		Services: []Service{
			{Type: "LinkedVerifiablePresentation", ServiceEndpoint: "https://example.com/vp"},
			{Type: "DIDCommMessaging", ServiceEndpoint: "https://example.com/didcomm"},
		},
		SigningKey: auth,
	})
	assert.Nil(err)
	assert.Len(updated.Document.KeyAgreement, 1)
	assert.Len(updated.Document.Service, 2)
	assert.Equal(2, updated.Log[1].VersionID)

	resolved, err := ResolveDID(updated.Log, 0)
	assert.Nil(err)
	assert.Len(resolved.Document.KeyAgreement, 1)
	assert.Len(resolved.Document.Service, 2)
}

func TestUpdateDIDAddsAlsoKnownAs(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)

	updated, err := UpdateDID(UpdateOptions{
		Log:         created.Log,
		VMs:         []*VerificationMethod{auth},
		AlsoKnownAs: []string{"did:web:example.com"},
		SigningKey:  auth,
	})
	assert.Nil(err)
	assert.Equal(2, updated.Log[1].VersionID)
	assert.Equal([]string{"did:web:example.com"}, updated.Document.AlsoKnownAs)

	resolved, err := ResolveDID(updated.Log, 0)
	assert.Nil(err)
	assert.Equal([]string{"did:web:example.com"}, resolved.Document.AlsoKnownAs)
}

func TestResolveDIDDetectsTamperedProof(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)

	newKey := newAuthVM()
	updated, err := UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        []*VerificationMethod{auth, newKey},
		SigningKey: auth,
	})
	assert.Nil(err)

	tampered := make(DIDLog, len(updated.Log))
	copy(tampered, updated.Log)
	proofCopy := *tampered[1].Proof
	raw := []byte(proofCopy.ProofValue)
	raw[len(raw)-1] ^= 0xFF
	proofCopy.ProofValue = string(raw)
	tampered[1].Proof = &proofCopy

	_, err = ResolveDID(tampered, 0)
	assert.ErrorIs(err, ErrProofInvalid)
}

func TestResolveDIDRejectsReorderedEntries(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)

	newKey := newAuthVM()
	updated, err := UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        []*VerificationMethod{auth, newKey},
		SigningKey: auth,
	})
	assert.Nil(err)

	thirdKey := newAuthVM()
	final, err := UpdateDID(UpdateOptions{
		Log:        updated.Log,
		VMs:        []*VerificationMethod{auth, newKey, thirdKey},
		SigningKey: auth,
	})
	assert.Nil(err)

	reordered := make(DIDLog, len(final.Log))
	copy(reordered, final.Log)
	reordered[1], reordered[2] = reordered[2], reordered[1]

	_, err = ResolveDID(reordered, 0)
	assert.Error(err)
	assert.True(derrors.IsAny(err, ErrHashMismatch, ErrVersionGap))
}

func TestCanonicalizeRejectsUnknownContext(t *testing.T) {
	assert := tdd.New(t)
	_, err := canonicalize(map[string]interface{}{
		"@context": []interface{}{"https://example.com/not-a-registered-context/v1"},
		"id":       "did:log:whatever",
	})
	assert.ErrorIs(err, ErrContextResolution)
}

func TestLogRoundTripPreservesSubSecondMonotonicity(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	fixed := &fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
		Clock:      fixed,
	})
	assert.Nil(err)

	// an update with the same clock reading forces nextVersionTime's
	// +1ms (sub-second) clamp; the persisted log must still resolve.
	newKey := newAuthVM()
	updated, err := UpdateDID(UpdateOptions{
		Log:        created.Log,
		VMs:        []*VerificationMethod{auth, newKey},
		SigningKey: auth,
		Clock:      fixed,
	})
	assert.Nil(err)
	assert.True(updated.Log[1].VersionTime.After(updated.Log[0].VersionTime))

	var buf bytes.Buffer
	assert.Nil(WriteLog(&buf, updated.Log))
	read, err := ReadLog(&buf)
	assert.Nil(err)

	_, err = ResolveDID(read, 0)
	assert.Nil(err)
}

// fixedClock always returns the same reading, forcing nextVersionTime's
// +1ms clamp on every call after the first.
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

func TestLogRoundTrip(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth},
		SigningKey: auth,
	})
	assert.Nil(err)

	var buf bytes.Buffer
	assert.Nil(WriteLog(&buf, created.Log))

	read, err := ReadLog(&buf)
	assert.Nil(err)
	assert.Len(read, 1)
	assert.Equal(created.Log[0].EntryHash, read[0].EntryHash)
	assert.Equal(created.Log[0].VersionID, read[0].VersionID)
	assert.WithinDuration(created.Log[0].VersionTime, read[0].VersionTime, time.Second)
}
