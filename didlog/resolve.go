package didlog

import (
	"encoding/json"
	"time"

	"go.didvh.dev/didlog/errors"
	"go.didvh.dev/didlog/log"
)

// resolveLog is a package-level logger for the resolution algorithm. It
// defaults to discarding output; callers embedding didlog into a service
// with its own logging should not need to reach into this, since failures
// already surface through ResolveDID's returned error.
var resolveLog log.Logger = log.Discard()

// SetLogger installs the logger used to report resolution-time warnings,
// such as an entry whose proof verification failed.
func SetLogger(l log.Logger) {
	if l != nil {
		resolveLog = l
	}
}

// DocumentMetadata carries the resolution metadata W3C DID resolution
// returns alongside a document.
// https://www.w3.org/TR/did-core/#did-document-metadata
type DocumentMetadata struct {
	VersionID   int       `json:"versionId"`
	VersionTime time.Time `json:"versionTime"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	Deactivated bool      `json:"deactivated"`
}

// Resolution is the result of resolving a DID log to a point-in-time
// document (§4.E).
type Resolution struct {
	Document *DIDDocument
	Metadata DocumentMetadata
}

// ResolveDID replays a DID's log and returns the document and metadata at
// atVersion, or at the latest version if atVersion is 0. Resolution fails
// closed: any inconsistency aborts with an error and no partial document is
// returned.
func ResolveDID(entries DIDLog, atVersion int) (*Resolution, error) {
	if len(entries) == 0 {
		return nil, errors.New("empty log")
	}

	genesis := entries[0]
	if genesis.VersionID != 1 {
		return nil, errors.Wrap(ErrVersionGap, "genesis entry must have versionId 1")
	}
	if _, err := verifyGenesisSCID(genesis); err != nil {
		return nil, err
	}

	var gp genesisPatch
	if err := json.Unmarshal(genesis.Patch, &gp); err != nil {
		return nil, errors.Wrap(err, "decode genesis patch")
	}
	if gp.Method != ProtocolTag {
		return nil, errors.Wrap(ErrInvalidState, "unsupported method/protocol tag in genesis entry")
	}
	doc := &gp.DIDDocument

	if err := verifyEntryProof(doc, genesis); err != nil {
		return nil, err
	}

	created := genesis.VersionTime
	updated := genesis.VersionTime
	lastHash := genesis.EntryHash
	lastVersionID := genesis.VersionID
	lastTime := genesis.VersionTime

	if atVersion == 0 || atVersion > lastVersionID {
		for i := 1; i < len(entries); i++ {
			entry := entries[i]

			if entry.VersionID != lastVersionID+1 {
				return nil, errors.Wrapf(ErrVersionGap, "expected versionId %d, got %d", lastVersionID+1, entry.VersionID)
			}
			if !entry.VersionTime.After(lastTime) {
				return nil, errors.Wrapf(ErrTimeRegression, "versionId %d", entry.VersionID)
			}
			expectedHash, err := computeEntryHash(lastHash, entry.Patch)
			if err != nil {
				return nil, err
			}
			if expectedHash != entry.EntryHash {
				resolveLog.WithFields(log.WithEntry(doc.ID, entry.VersionID, entry.EntryHash)).Warning("entry hash mismatch")
				return nil, errors.Wrapf(ErrHashMismatch, "versionId %d", entry.VersionID)
			}

			nextDoc, err := ApplyPatch(doc, entry.Patch)
			if err != nil {
				return nil, errors.Wrapf(err, "apply patch at versionId %d", entry.VersionID)
			}
			if err := verifyEntryProof(nextDoc, entry); err != nil {
				resolveLog.WithFields(log.WithEntry(doc.ID, entry.VersionID, entry.EntryHash)).Warning("entry proof verification failed")
				return nil, err
			}

			doc = nextDoc
			lastHash = entry.EntryHash
			lastVersionID = entry.VersionID
			lastTime = entry.VersionTime
			updated = entry.VersionTime

			if atVersion != 0 && entry.VersionID >= atVersion {
				break
			}
		}
	}

	return &Resolution{
		Document: doc,
		Metadata: DocumentMetadata{
			VersionID:   lastVersionID,
			VersionTime: lastTime,
			Created:     created,
			Updated:     updated,
			Deactivated: !doc.HasAuthentication(),
		},
	}, nil
}

// verifyEntryProof checks that entry's proof was produced by a key
// authorized (present in the authentication role array) by resultDoc, and
// validates it against resultDoc's canonical form. Authorization is always
// checked against the document the patch produces, never the prior one:
// this is what lets a single update both rotate out the sole signing key
// and sign with its replacement (spec.md §4.D's final invariant).
func verifyEntryProof(resultDoc *DIDDocument, entry LogEntry) error {
	if entry.Proof == nil {
		return errors.Wrap(ErrProofInvalid, "missing proof")
	}
	vm, ok := resultDoc.ResolveVM(entry.Proof.VerificationMethod)
	if !ok {
		external, extErr := externalResolver(entry.Proof.VerificationMethod)
		if extErr != nil {
			return errors.Wrapf(ErrUnknownVerificationMethod, "versionId %d: %v", entry.VersionID, extErr)
		}
		vm = external
	}
	authorized := false
	for _, ref := range resultDoc.Authentication {
		if ref.ID() == entry.Proof.VerificationMethod {
			authorized = true
			break
		}
	}
	if !authorized {
		return errors.Wrapf(ErrUnauthorizedKey, "versionId %d", entry.VersionID)
	}
	docCanon, err := canonicalize(resultDoc)
	if err != nil {
		return err
	}
	if err := VerifyProof(vm, docCanon, entry.Proof); err != nil {
		return errors.Wrapf(ErrProofInvalid, "versionId %d: %v", entry.VersionID, err)
	}
	return nil
}
