package didlog

import (
	"testing"

	tdd "github.com/stretchr/testify/assert"
)

func TestDiffDocumentsNoopWhenEqual(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	doc, err := BuildDocument(BuildOptions{
		SCID: scidPlaceholder,
		VMs:  []*VerificationMethod{auth},
	})
	assert.Nil(err)

	patch, err := DiffDocuments(doc, doc)
	assert.Nil(err)
	assert.JSONEq("[]", string(patch))
}

func TestDiffAndApplyRoundTrip(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	prev, err := BuildDocument(BuildOptions{SCID: scidPlaceholder, VMs: []*VerificationMethod{auth}})
	assert.Nil(err)

	newKey := newAuthVM()
	next, err := BuildDocument(BuildOptions{
		SCID:        scidPlaceholder,
		VMs:         []*VerificationMethod{auth, newKey},
		AlsoKnownAs: []string{"https://example.com/profile"},
	})
	assert.Nil(err)

	patch, err := DiffDocuments(prev, next)
	assert.Nil(err)

	applied, err := ApplyPatch(prev, patch)
	assert.Nil(err)
	assert.Equal(len(next.VerificationMethod), len(applied.VerificationMethod))
	assert.Equal(next.AlsoKnownAs, applied.AlsoKnownAs)
}

func TestDiffDocumentsRemovesDroppedField(t *testing.T) {
	assert := tdd.New(t)
	auth := newAuthVM()
	prev, err := BuildDocument(BuildOptions{
		SCID:        scidPlaceholder,
		VMs:         []*VerificationMethod{auth},
		AlsoKnownAs: []string{"https://example.com/profile"},
	})
	assert.Nil(err)
	next, err := BuildDocument(BuildOptions{SCID: scidPlaceholder, VMs: []*VerificationMethod{auth}})
	assert.Nil(err)

	patch, err := DiffDocuments(prev, next)
	assert.Nil(err)

	applied, err := ApplyPatch(prev, patch)
	assert.Nil(err)
	assert.Empty(applied.AlsoKnownAs)
}
