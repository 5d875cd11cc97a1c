package didlog

import (
	"testing"

	tdd "github.com/stretchr/testify/assert"

	edkp "go.didvh.dev/didlog/crypto/ed25519"
	xkp "go.didvh.dev/didlog/crypto/x25519"
)

func TestCreateDIDFromKeyPairPackages(t *testing.T) {
	assert := tdd.New(t)

	authKP, err := edkp.New()
	assert.Nil(err)
	defer authKP.Destroy()
	agreementKP, err := xkp.New()
	assert.Nil(err)
	defer agreementKP.Destroy()

	auth := NewSigningVerificationMethod(Authentication, authKP)
	agreement := NewKeyAgreementVerificationMethod(agreementKP)

	created, err := CreateDID(CreateOptions{
		VMs:        []*VerificationMethod{auth, agreement},
		SigningKey: auth,
	})
	assert.Nil(err)
	assert.True(created.Document.HasAuthentication())
	assert.Len(created.Document.KeyAgreement, 1)

	resolved, err := ResolveDID(created.Log, 0)
	assert.Nil(err)
	assert.Equal(created.DID, resolved.Document.ID)
}
