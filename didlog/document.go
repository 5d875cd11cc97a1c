package didlog

import (
	"sort"

	"github.com/google/uuid"

	"go.didvh.dev/didlog/errors"
)

// Service describes an endpoint associated with a DID subject, such as a
// DIDComm messaging endpoint or a linked verifiable presentation.
// https://www.w3.org/TR/did-core/#services
type Service struct {
	ID              string      `json:"id" yaml:"id"`
	Type            string      `json:"type" yaml:"type"`
	ServiceEndpoint interface{} `json:"serviceEndpoint" yaml:"serviceEndpoint"`
	Extensions      []Extension `json:"extensions,omitempty" yaml:"extensions,omitempty"`
}

// Extension carries method-specific metadata attached to a verification
// method or service without forking the core schema.
type Extension struct {
	ID      string      `json:"id" yaml:"id"`
	Version string      `json:"version" yaml:"version"`
	Data    interface{} `json:"data,omitempty" yaml:"data,omitempty"`
}

// DIDDocument is the JSON-LD object describing the keys and services bound
// to a DID subject at a given point in its log.
// https://www.w3.org/TR/did-core/#did-documents
type DIDDocument struct {
	Context              []string               `json:"@context"`
	ID                   string                 `json:"id"`
	Controller           []string               `json:"controller,omitempty"`
	AlsoKnownAs          []string               `json:"alsoKnownAs,omitempty"`
	VerificationMethod   []*VerificationMethod  `json:"verificationMethod,omitempty"`
	Authentication       []VMRef                `json:"authentication,omitempty"`
	AssertionMethod      []VMRef                `json:"assertionMethod,omitempty"`
	KeyAgreement         []VMRef                `json:"keyAgreement,omitempty"`
	CapabilityInvocation []VMRef                `json:"capabilityInvocation,omitempty"`
	CapabilityDelegation []VMRef                `json:"capabilityDelegation,omitempty"`
	Service              []Service              `json:"service,omitempty"`
}

// VMRef is an entry in a verification-relationship role array: either a
// full, embedded VerificationMethod (for locally-controlled keys) or a bare
// string "id" reference into VerificationMethod (for externally-controlled
// keys).
// https://www.w3.org/TR/did-core/#did-document-properties
type VMRef struct {
	Embedded *VerificationMethod
	Ref      string
}

// RoleArray returns the role array of d matching r, keyed by role rather
// than by struct field access.
func (d *DIDDocument) RoleArray(r VerificationRole) []VMRef {
	switch r {
	case Authentication:
		return d.Authentication
	case AssertionMethod:
		return d.AssertionMethod
	case KeyAgreement:
		return d.KeyAgreement
	case CapabilityInvocation:
		return d.CapabilityInvocation
	case CapabilityDelegation:
		return d.CapabilityDelegation
	default:
		return nil
	}
}

func (d *DIDDocument) setRoleArray(r VerificationRole, refs []VMRef) {
	switch r {
	case Authentication:
		d.Authentication = refs
	case AssertionMethod:
		d.AssertionMethod = refs
	case KeyAgreement:
		d.KeyAgreement = refs
	case CapabilityInvocation:
		d.CapabilityInvocation = refs
	case CapabilityDelegation:
		d.CapabilityDelegation = refs
	}
}

// ResolveVM looks up a verification method id (embedded or referenced) in
// the document's verificationMethod array.
func (d *DIDDocument) ResolveVM(id string) (*VerificationMethod, bool) {
	for _, vm := range d.VerificationMethod {
		if vm.ID == id {
			return vm, true
		}
	}
	return nil, false
}

// HasAuthentication reports whether the document has any authentication
// verification method; a document with none is deactivated.
// https://www.w3.org/TR/did-core/#did-documents (terminal state, §4.E)
func (d *DIDDocument) HasAuthentication() bool {
	return len(d.Authentication) > 0
}

// BuildOptions captures the inputs to the document builder (§4.C).
type BuildOptions struct {
	SCID        string
	Domain      string
	VMs         []*VerificationMethod
	Services    []Service
	Contexts    []string
	Controllers []string
	AlsoKnownAs []string
}

// BuildDocument assembles a DIDDocument from accumulated state, per the
// document-builder algorithm: derive the DID string, assign VM
// controllers/ids, populate verificationMethod and role arrays (embedding
// locally-controlled VMs, referencing externally-controlled ones), and fix
// a stable, deduplicated @context ordering.
func BuildDocument(opts BuildOptions) (*DIDDocument, error) {
	did, err := FormatDID(opts.SCID, opts.Domain)
	if err != nil {
		return nil, err
	}

	services := make([]Service, len(opts.Services))
	copy(services, opts.Services)
	for i, svc := range services {
		if svc.ID == "" {
			services[i].ID = did + "#service-" + uuid.New().String()
		}
	}

	d := &DIDDocument{
		ID:          did,
		Controller:  opts.Controllers,
		AlsoKnownAs: opts.AlsoKnownAs,
		Service:     services,
	}

	// stable, deduplicated context ordering: DID/v1 first, then caller
	// supplied contexts in order, deduplicated.
	seen := map[string]bool{contextDID: true}
	d.Context = []string{contextDID}
	for _, c := range opts.Contexts {
		if seen[c] {
			continue
		}
		seen[c] = true
		d.Context = append(d.Context, c)
	}

	// assign controller/id, dedupe by id into verificationMethod.
	byID := make(map[string]*VerificationMethod)
	var order []string
	for _, vm := range opts.VMs {
		if vm.Controller == "" {
			vm.Controller = did
		}
		if vm.ID == "" {
			vm.ID = vm.Controller + "#" + vm.idSuffix()
		}
		if _, dup := byID[vm.ID]; !dup {
			order = append(order, vm.ID)
		}
		byID[vm.ID] = vm
	}
	sort.Strings(order) // deterministic regardless of caller-supplied order
	for _, id := range order {
		d.VerificationMethod = append(d.VerificationMethod, byID[id])
	}

	// populate role arrays: embed locally-controlled VMs, reference
	// externally-controlled ones by id.
	for _, role := range roleOrder {
		var refs []VMRef
		for _, id := range order {
			vm := byID[id]
			if vm.Role != role {
				continue
			}
			if vm.Controller == did {
				refs = append(refs, VMRef{Embedded: vm})
			} else {
				refs = append(refs, VMRef{Ref: vm.ID})
			}
		}
		d.setRoleArray(role, refs)
	}

	return d, nil
}

var errNoAuthenticationKey = errors.New("document has no authentication verification method")
