package didlog

import (
	"encoding/json"
	"time"

	"go.didvh.dev/didlog/errors"
)

// LogEntry is one position in a DID's append-only log, encoded as a
// positional 5-tuple: [entryHash, versionId, versionTime, patch, proof].
type LogEntry struct {
	// EntryHash chains this entry to its predecessor: the base58btc
	// multibase encoding of sha256(json([previousEntryHash, patch])),
	// truncated to scidLength characters (see computeEntryHash). For the
	// genesis entry this also serves as the DID's self-certifying suffix.
	EntryHash string

	// VersionID is a monotone integer starting at 1.
	VersionID int

	// VersionTime is strictly monotone across entries in a log.
	VersionTime time.Time

	// Patch is the genesis full-state object (version 1) or an RFC-6902
	// JSON Patch document (later versions).
	Patch json.RawMessage

	// Proof is a Data Integrity proof signed by a key authorized by the
	// document this entry produces.
	Proof *DataIntegrityProof
}

// MarshalJSON encodes the entry as its 5-element positional array.
func (e LogEntry) MarshalJSON() ([]byte, error) {
	arr := []interface{}{
		e.EntryHash,
		e.VersionID,
		e.VersionTime.UTC().Format(time.RFC3339Nano),
		e.Patch,
		e.Proof,
	}
	return json.Marshal(arr)
}

// UnmarshalJSON decodes an entry from its 5-element positional array.
func (e *LogEntry) UnmarshalJSON(b []byte) error {
	var arr [5]json.RawMessage
	if err := json.Unmarshal(b, &arr); err != nil {
		return errors.Wrap(err, "decode log entry array")
	}
	if err := json.Unmarshal(arr[0], &e.EntryHash); err != nil {
		return errors.Wrap(err, "decode entryHash")
	}
	if err := json.Unmarshal(arr[1], &e.VersionID); err != nil {
		return errors.Wrap(err, "decode versionId")
	}
	var ts string
	if err := json.Unmarshal(arr[2], &ts); err != nil {
		return errors.Wrap(err, "decode versionTime")
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return errors.Wrap(err, "parse versionTime")
	}
	e.VersionTime = t.UTC()
	e.Patch = append(json.RawMessage(nil), arr[3]...)
	var proof DataIntegrityProof
	if err := json.Unmarshal(arr[4], &proof); err != nil {
		return errors.Wrap(err, "decode proof")
	}
	e.Proof = &proof
	return nil
}

// computeEntryHash reproduces the chaining hash over (prevHash, patch).
// The pair is not a JSON-LD document, so this uses a plain deterministic
// JSON encoding of the 2-element array rather than URDNA2015 (which
// signing over the full document still uses, see canonicalize). The result
// is truncated to scidLength multibase characters: the genesis entry's
// hash doubles as the DID's fixed-width self-certifying suffix, and every
// entry hash uses the same width for consistency.
func computeEntryHash(prevHash string, patch json.RawMessage) (string, error) {
	b, err := json.Marshal([]interface{}{prevHash, patch})
	if err != nil {
		return "", errors.Wrap(err, "encode (prevHash, patch) pair")
	}
	mb := multibaseEncode(hashSHA256(b))
	if len(mb) > scidLength {
		mb = mb[:scidLength]
	}
	return mb, nil
}
