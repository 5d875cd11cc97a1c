package didlog

import (
	"time"

	"go.didvh.dev/didlog/errors"
	"go.didvh.dev/didlog/log"
)

// UpdateOptions describes the desired next state of a DID document. Unlike
// CreateOptions, the SCID is inherited from the current log; so is the
// domain, unless Domain is set.
type UpdateOptions struct {
	// Log is the DID's current log; the update is appended to a copy of it.
	Log DIDLog

	// Domain, when non-nil, replaces the DID's embedded domain hint
	// (migration, §4.D); nil leaves the current log's domain unchanged. A
	// pointer to an empty string removes the domain hint entirely.
	Domain *string

	VMs         []*VerificationMethod
	Services    []Service
	Contexts    []string
	Controllers []string
	AlsoKnownAs []string

	// SigningKey authorizes the update; it must hold an authentication
	// role in the *current* (pre-update) document.
	SigningKey *VerificationMethod

	Clock  Clock
	Logger log.Logger
}

// UpdateDID resolves entries to its current state, builds the requested
// next document, diffs the two into an RFC-6902 patch, and appends a new
// signed entry (§4.D). Update is rejected if the current document is
// deactivated (no authentication methods) or if SigningKey is not currently
// authorized.
func UpdateDID(opts UpdateOptions) (*Result, error) {
	entries := opts.Log
	if len(entries) == 0 {
		return nil, errors.Wrap(ErrInvalidState, "update requires the DID's current log")
	}
	if opts.SigningKey == nil {
		return nil, errors.Wrap(ErrInvalidState, "update requires a signing key")
	}
	clk := opts.Clock
	if clk == nil {
		clk = DefaultClock
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	current, err := ResolveDID(entries, 0)
	if err != nil {
		return nil, err
	}
	prevDoc := current.Document
	if current.Metadata.Deactivated {
		return nil, errors.Wrap(ErrInvalidState, "cannot update a deactivated document")
	}

	authorized := false
	for _, ref := range prevDoc.Authentication {
		if ref.ID() == opts.SigningKey.ID {
			authorized = true
			break
		}
	}
	if !authorized {
		return nil, errors.Wrap(ErrUnauthorizedKey, "signing key is not an authorized authentication method")
	}

	parsed, err := ParseDID(prevDoc.ID)
	if err != nil {
		return nil, err
	}
	domain := parsed.Domain
	if opts.Domain != nil {
		domain = *opts.Domain
	}

	nextDoc, err := BuildDocument(BuildOptions{
		SCID:        parsed.SCID,
		Domain:      domain,
		VMs:         opts.VMs,
		Services:    opts.Services,
		Contexts:    opts.Contexts,
		Controllers: opts.Controllers,
		AlsoKnownAs: opts.AlsoKnownAs,
	})
	if err != nil {
		return nil, err
	}

	patch, err := DiffDocuments(prevDoc, nextDoc)
	if err != nil {
		return nil, err
	}

	lastEntry := entries[len(entries)-1]
	entryHash, err := computeEntryHash(lastEntry.EntryHash, patch)
	if err != nil {
		return nil, err
	}
	versionTime := nextVersionTime(clk, lastEntry.VersionTime)

	docCanon, err := canonicalize(nextDoc)
	if err != nil {
		return nil, err
	}
	purpose := Authentication.String()
	proof, err := ProduceProof(opts.SigningKey, docCanon, purpose, versionTime)
	if err != nil {
		return nil, err
	}

	entry := LogEntry{
		EntryHash:   entryHash,
		VersionID:   lastEntry.VersionID + 1,
		VersionTime: versionTime,
		Patch:       patch,
		Proof:       proof,
	}
	newLog := make(DIDLog, len(entries), len(entries)+1)
	copy(newLog, entries)
	newLog = append(newLog, entry)

	fields := log.WithVersionTime(log.WithEntry(nextDoc.ID, entry.VersionID, entry.EntryHash), entry.VersionTime.UTC().Format(time.RFC3339))
	logger.WithFields(fields).Info("did updated")
	return &Result{DID: nextDoc.ID, Document: nextDoc, Log: newLog}, nil
}
