package didlog

import (
	"encoding/json"
	"strings"
	"time"

	"go.didvh.dev/didlog/errors"
	"go.didvh.dev/didlog/log"
)

// CreateOptions captures everything needed to mint a new DID and its
// genesis log entry.
type CreateOptions struct {
	// Domain, when set, is embedded in the DID string as a migration hint
	// (did:log:<scid>:<domain-colon-encoded>).
	Domain string

	VMs         []*VerificationMethod
	Services    []Service
	Contexts    []string
	Controllers []string
	AlsoKnownAs []string

	// SigningKey is the verification method (already present in VMs, with
	// Private set) used to produce the genesis proof. It must carry an
	// Authentication role.
	SigningKey *VerificationMethod

	// Clock supplies versionTime; defaults to DefaultClock.
	Clock Clock

	// Logger receives structured progress/failure events; defaults to a
	// no-op discard logger.
	Logger log.Logger
}

// Result is the outcome of CreateDID or UpdateDID: the resulting DID, its
// current document, and the full log backing it.
type Result struct {
	DID      string
	Document *DIDDocument
	Log      DIDLog
}

// CreateDID derives a new self-certifying DID from the given verification
// methods and services, producing its genesis log entry (§4.B-D).
//
// The genesis document is first built with a placeholder identifier, hashed
// to obtain the self-certifying suffix, and then the placeholder is
// substituted for the real value throughout the serialized patch - which
// also fixes up every VM controller and id, since those are built by string
// concatenation against the DID string rather than by hashing.
func CreateDID(opts CreateOptions) (*Result, error) {
	if opts.SigningKey == nil {
		return nil, errors.Wrap(ErrInvalidState, "create requires a signing key")
	}
	clk := opts.Clock
	if clk == nil {
		clk = DefaultClock
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	placeholderDoc, err := BuildDocument(BuildOptions{
		SCID:        scidPlaceholder,
		Domain:      opts.Domain,
		VMs:         opts.VMs,
		Services:    opts.Services,
		Contexts:    opts.Contexts,
		Controllers: opts.Controllers,
		AlsoKnownAs: opts.AlsoKnownAs,
	})
	if err != nil {
		return nil, err
	}
	if !placeholderDoc.HasAuthentication() {
		return nil, errors.Wrap(ErrInvalidState, errNoAuthenticationKey.Error())
	}

	placeholderPatch, err := buildGenesisPatch(placeholderDoc)
	if err != nil {
		return nil, err
	}

	scid, err := deriveSCID(placeholderPatch)
	if err != nil {
		return nil, err
	}
	finalPatchBytes := substitutePlaceholder(placeholderPatch, scidPlaceholder, scid)

	var finalPatch genesisPatch
	if err := json.Unmarshal(finalPatchBytes, &finalPatch); err != nil {
		return nil, errors.Wrap(err, "decode final genesis patch")
	}
	finalDoc := &finalPatch.DIDDocument

	// BuildDocument assigned controller/id fields to every VM in opts.VMs
	// using the placeholder DID, mutating the caller's records in place.
	// Back-patch all of them (not just the signing key) to their final,
	// scid-bearing form so a caller can safely reuse any of these VM
	// pointers in a later UpdateDID call.
	for _, vm := range opts.VMs {
		vm.Controller = strings.ReplaceAll(vm.Controller, scidPlaceholder, scid)
		vm.ID = strings.ReplaceAll(vm.ID, scidPlaceholder, scid)
	}

	signingID := opts.SigningKey.ID
	if _, ok := finalDoc.ResolveVM(signingID); !ok {
		return nil, errors.Wrap(ErrUnauthorizedKey, "signing key not present in genesis document")
	}
	signer := &VerificationMethod{
		ID:      signingID,
		Role:    opts.SigningKey.Role,
		Public:  opts.SigningKey.Public,
		Private: opts.SigningKey.Private,
	}
	authorized := false
	for _, ref := range finalDoc.Authentication {
		if ref.ID() == signingID {
			authorized = true
			break
		}
	}
	if !authorized {
		return nil, errors.Wrap(ErrUnauthorizedKey, "signing key does not hold an authentication role")
	}

	docCanon, err := canonicalize(finalDoc)
	if err != nil {
		return nil, err
	}
	now := clk.Now().UTC()
	proof, err := ProduceProof(signer, docCanon, Authentication.String(), now)
	if err != nil {
		return nil, err
	}

	entry := LogEntry{
		EntryHash:   scid,
		VersionID:   1,
		VersionTime: now,
		Patch:       finalPatchBytes,
		Proof:       proof,
	}
	fields := log.WithVersionTime(log.WithEntry(finalDoc.ID, entry.VersionID, entry.EntryHash), entry.VersionTime.UTC().Format(time.RFC3339))
	logger.WithFields(fields).Info("did created")
	return &Result{DID: finalDoc.ID, Document: finalDoc, Log: DIDLog{entry}}, nil
}
