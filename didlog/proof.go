package didlog

import (
	"time"

	"go.didvh.dev/didlog/errors"
)

// CryptosuiteRDFC2022 is the only cryptosuite identifier this method emits
// or accepts. Canonicalization is performed via RDF Dataset Canonicalization
// (URDNA2015), not the JSON Canonicalization Scheme, so "eddsa-jcs-2022" is
// not a valid cryptosuite value here.
const CryptosuiteRDFC2022 = "eddsa-rdfc-2022"

// DataIntegrityProof provides integrity and authentication protection for a
// DID document version, per the W3C Data Integrity specification.
// https://www.w3.org/TR/vc-data-integrity/
type DataIntegrityProof struct {
	// Type is always "DataIntegrityProof".
	Type string `json:"type" yaml:"type"`

	// Cryptosuite identifies the suite used to produce the proof.
	Cryptosuite string `json:"cryptosuite" yaml:"cryptosuite"`

	// Created is the proof generation timestamp, RFC3339 formatted.
	Created string `json:"created" yaml:"created"`

	// VerificationMethod references the key used to produce the proof.
	VerificationMethod string `json:"verificationMethod" yaml:"verificationMethod"`

	// ProofPurpose records the verification relationship this proof is
	// scoped to, typically "authentication".
	ProofPurpose string `json:"proofPurpose" yaml:"proofPurpose"`

	// ProofValue is the multibase-encoded signature value.
	ProofValue string `json:"proofValue" yaml:"proofValue"`
}

// proofOptions is the subset of proof fields included in the canonicalized
// proof-options document, i.e. everything except proofValue itself.
type proofOptions struct {
	Context            []string `json:"@context"`
	Type               string   `json:"type"`
	Cryptosuite        string   `json:"cryptosuite"`
	Created            string   `json:"created"`
	VerificationMethod string   `json:"verificationMethod"`
	ProofPurpose       string   `json:"proofPurpose"`
}

// signingInput returns the canonicalized-and-hashed input to be signed (or
// checked) for a proof over the given canonicalized document bytes.
// input = hash(canonicalize(proofOptions)) | hash(canonicalize(document))
// https://www.w3.org/TR/vc-data-integrity/#generate-hash
func signingInput(p *DataIntegrityProof, docCanon []byte) ([]byte, error) {
	opts := proofOptions{
		Context:            []string{contextSecurityV1},
		Type:               p.Type,
		Cryptosuite:        p.Cryptosuite,
		Created:            p.Created,
		VerificationMethod: p.VerificationMethod,
		ProofPurpose:       p.ProofPurpose,
	}
	optsCanon, err := canonicalize(opts)
	if err != nil {
		return nil, errors.Wrap(err, "canonicalize proof options")
	}
	return append(hashSHA256(optsCanon), hashSHA256(docCanon)...), nil
}

// ProduceProof generates a Data Integrity proof over a canonicalized
// document using the given verification method and purpose.
func ProduceProof(vm *VerificationMethod, docCanon []byte, purpose string, created time.Time) (*DataIntegrityProof, error) {
	if vm.Role.CryptoKind() != KindEd25519 {
		return nil, errors.Errorf("verification method %s is not signing-capable", vm.ID)
	}
	p := &DataIntegrityProof{
		Type:               "DataIntegrityProof",
		Cryptosuite:        CryptosuiteRDFC2022,
		Created:            created.UTC().Format(time.RFC3339),
		VerificationMethod: vm.ID,
		ProofPurpose:       purpose,
	}
	input, err := signingInput(p, docCanon)
	if err != nil {
		return nil, err
	}
	sig, err := vm.Sign(input)
	if err != nil {
		return nil, errors.Wrap(err, "sign proof")
	}
	p.ProofValue = multibaseEncode(sig)
	return p, nil
}

// VerifyProof validates a Data Integrity proof against a canonicalized
// document using the given verification method.
func VerifyProof(vm *VerificationMethod, docCanon []byte, p *DataIntegrityProof) error {
	if p.Type != "DataIntegrityProof" {
		return errors.Errorf("unsupported proof type: %s", p.Type)
	}
	if p.Cryptosuite != CryptosuiteRDFC2022 {
		return errors.Errorf("unsupported cryptosuite: %s", p.Cryptosuite)
	}
	input, err := signingInput(p, docCanon)
	if err != nil {
		return err
	}
	sig, err := multibaseDecode(p.ProofValue)
	if err != nil {
		return errors.Wrap(err, "decode proof value")
	}
	if !vm.Verify(input, sig) {
		return errors.New("proof verification failed")
	}
	return nil
}
