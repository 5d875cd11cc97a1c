package didlog

import (
	"bytes"
	"encoding/json"
	"reflect"

	jsonpatch "github.com/evanphx/json-patch"

	"go.didvh.dev/didlog/didlog/internal/jsonptr"
	"go.didvh.dev/didlog/errors"
)

// patchFieldOrder fixes the deterministic order in which top-level document
// fields are compared when generating an update patch.
var patchFieldOrder = []string{
	"@context",
	"id",
	"controller",
	"alsoKnownAs",
	"verificationMethod",
	"authentication",
	"assertionMethod",
	"keyAgreement",
	"capabilityInvocation",
	"capabilityDelegation",
	"service",
}

// patchOp is a single RFC-6902 JSON Patch operation.
type patchOp struct {
	Op    string      `json:"op"`
	Path  string      `json:"path"`
	Value interface{} `json:"value,omitempty"`
}

// DiffDocuments builds a deterministic RFC-6902 JSON Patch document
// transforming prev into next. Only the fixed top-level fields in
// patchFieldOrder are considered, walked in that order; unchanged fields
// produce no operation, fields that appear/disappear produce add/remove,
// and fields whose value differs produce replace.
func DiffDocuments(prev, next *DIDDocument) (json.RawMessage, error) {
	prevFields, err := documentFields(prev)
	if err != nil {
		return nil, err
	}
	nextFields, err := documentFields(next)
	if err != nil {
		return nil, err
	}

	ops := []patchOp{}
	for _, key := range patchFieldOrder {
		pv, pOK := prevFields[key]
		nv, nOK := nextFields[key]
		path := (jsonptr.Pointer{key}).String()
		switch {
		case !pOK && nOK:
			ops = append(ops, patchOp{Op: "add", Path: path, Value: nv})
		case pOK && !nOK:
			ops = append(ops, patchOp{Op: "remove", Path: path})
		case pOK && nOK && !fieldEqual(pv, nv):
			ops = append(ops, patchOp{Op: "replace", Path: path, Value: nv})
		}
	}

	b, err := json.Marshal(ops)
	if err != nil {
		return nil, errors.Wrap(err, "encode json patch")
	}
	return b, nil
}

// ApplyPatch applies an RFC-6902 JSON Patch document to prev and decodes
// the result into a new DIDDocument.
func ApplyPatch(prev *DIDDocument, patch json.RawMessage) (*DIDDocument, error) {
	prevBytes, err := json.Marshal(prev)
	if err != nil {
		return nil, errors.Wrap(err, "encode previous document")
	}
	decoded, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, errors.Wrap(err, "decode json patch")
	}
	nextBytes, err := decoded.Apply(prevBytes)
	if err != nil {
		return nil, errors.Wrap(err, "apply json patch")
	}
	var next DIDDocument
	if err := json.Unmarshal(nextBytes, &next); err != nil {
		return nil, errors.Wrap(err, "decode patched document")
	}
	return &next, nil
}

// documentFields decodes a document into its top-level field map, the
// generic representation DiffDocuments compares against.
func documentFields(doc *DIDDocument) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, errors.Wrap(err, "decode document fields")
	}
	return fields, nil
}

// fieldEqual compares two raw JSON values for semantic equality, ignoring
// insignificant whitespace differences.
func fieldEqual(a, b json.RawMessage) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}
	var av, bv interface{}
	if json.Unmarshal(a, &av) != nil || json.Unmarshal(b, &bv) != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}
