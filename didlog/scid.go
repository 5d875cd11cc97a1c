package didlog

import (
	"bytes"
	"encoding/json"

	"go.didvh.dev/didlog/errors"
)

// scidPlaceholder is substituted for the not-yet-known self-certifying
// identifier while building the genesis document. It contains characters
// ('{', '}') that never appear in base58btc multibase output, so it cannot
// collide with a legitimate SCID.
const scidPlaceholder = "{SCID}"

// genesisPatch is the full-state patch carried by a log's first entry: the
// method/protocol tag, the scid, and every DID document field.
type genesisPatch struct {
	Method string `json:"method"`
	SCID   string `json:"scid"`
	DIDDocument
}

// buildGenesisPatch serializes a genesis document (built with scid set to
// scidPlaceholder) into its patch form.
func buildGenesisPatch(doc *DIDDocument) (json.RawMessage, error) {
	gp := genesisPatch{
		Method:      ProtocolTag,
		SCID:        scidPlaceholder,
		DIDDocument: *doc,
	}
	b, err := json.Marshal(gp)
	if err != nil {
		return nil, errors.Wrap(err, "encode genesis patch")
	}
	return b, nil
}

// deriveSCID computes the self-certifying identifier for a placeholder
// genesis patch: the entry hash of ["", patch] as computed by
// computeEntryHash (plain JSON encoding, truncated to scidLength).
func deriveSCID(placeholderPatch json.RawMessage) (string, error) {
	return computeEntryHash("", placeholderPatch)
}

// substitutePlaceholder replaces every occurrence of old with new across
// the serialized patch bytes, used both to bake the final SCID into a
// genesis patch (old=placeholder, new=scid) and, at resolution time, to
// reconstruct the placeholder form for verification (old=scid,
// new=placeholder).
func substitutePlaceholder(patch json.RawMessage, old, new string) json.RawMessage {
	return bytes.ReplaceAll(patch, []byte(old), []byte(new))
}

// verifyGenesisSCID recomputes the genesis hash via placeholder
// substitution and checks it against the stored entry hash, returning the
// SCID on success. Implements resolver step 2 (§4.E).
func verifyGenesisSCID(entry LogEntry) (string, error) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(entry.Patch, &generic); err != nil {
		return "", errors.Wrap(err, "decode genesis patch")
	}
	rawSCID, ok := generic["scid"]
	if !ok {
		return "", errors.Wrap(ErrSCIDMismatch, "genesis patch missing scid field")
	}
	var scid string
	if err := json.Unmarshal(rawSCID, &scid); err != nil {
		return "", errors.Wrap(err, "decode scid field")
	}

	placeholderForm := substitutePlaceholder(entry.Patch, scid, scidPlaceholder)
	h0, err := deriveSCID(placeholderForm)
	if err != nil {
		return "", err
	}
	if h0 != entry.EntryHash {
		return "", errors.Wrap(ErrSCIDMismatch, "recomputed genesis hash does not match entry hash")
	}
	return scid, nil
}
