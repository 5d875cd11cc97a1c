package didlog

import (
	"bytes"
	"encoding/json"
	"sync"

	"github.com/piprate/json-gold/ld"
	"go.didvh.dev/didlog/errors"
)

// JSON-LD context identifiers used throughout the method.
const (
	contextDID           = "https://www.w3.org/ns/did/v1"
	contextSecurityV1    = "https://w3id.org/security/v1"
	contextSecurityV2    = "https://w3id.org/security/v2"
	contextEd25519_2020  = "https://w3id.org/security/suites/ed25519-2020/v1"
	contextX25519_2020   = "https://w3id.org/security/suites/x25519-2020/v1"
	contextLinkedVP      = "https://identity.foundation/linked-vp/contexts/v1"
	contextDIDCommV2     = "https://didcomm.org/messaging/v2"
	contextExtensionsV1  = "https://did-ns.didvh.dev/extensions/v1"
)

// https://www.w3.org/ns/did/v1
var didV1 = `{
  "@context": {
    "@protected": true,
    "id": "@id",
    "type": "@type",
    "alsoKnownAs": {"@id": "https://www.w3.org/ns/activitystreams#alsoKnownAs", "@type": "@id"},
    "assertionMethod": {"@id": "https://w3id.org/security#assertionMethod", "@type": "@id", "@container": "@set"},
    "authentication": {"@id": "https://w3id.org/security#authenticationMethod", "@type": "@id", "@container": "@set"},
    "capabilityDelegation": {"@id": "https://w3id.org/security#capabilityDelegationMethod", "@type": "@id", "@container": "@set"},
    "capabilityInvocation": {"@id": "https://w3id.org/security#capabilityInvocationMethod", "@type": "@id", "@container": "@set"},
    "controller": {"@id": "https://w3id.org/security#controller", "@type": "@id"},
    "keyAgreement": {"@id": "https://w3id.org/security#keyAgreementMethod", "@type": "@id", "@container": "@set"},
    "service": {
      "@id": "https://www.w3.org/ns/did#service",
      "@type": "@id",
      "@context": {
        "@protected": true,
        "id": "@id",
        "type": "@type",
        "serviceEndpoint": {"@id": "https://www.w3.org/ns/did#serviceEndpoint", "@type": "@id"}
      }
    },
    "verificationMethod": {"@id": "https://w3id.org/security#verificationMethod", "@type": "@id"}
  }
}`

// https://w3id.org/security/v1 and v2 (merged here for the properties we use)
var securityV1 = `{
  "@context": {
    "id": "@id",
    "type": "@type",
    "dc": "http://purl.org/dc/terms/",
    "sec": "https://w3id.org/security#",
    "xsd": "http://www.w3.org/2001/XMLSchema#",
    "DataIntegrityProof": "sec:DataIntegrityProof",
    "created": {"@id": "dc:created", "@type": "xsd:dateTime"},
    "expires": {"@id": "sec:expiration", "@type": "xsd:dateTime"},
    "cryptosuite": "sec:cryptosuite",
    "domain": "sec:domain",
    "challenge": "sec:challenge",
    "nonce": "sec:nonce",
    "proof": {"@id": "sec:proof", "@type": "@id", "@container": "@graph"},
    "proofPurpose": {
      "@id": "sec:proofPurpose",
      "@type": "@vocab",
      "@context": {
        "@protected": true,
        "id": "@id",
        "type": "@type",
        "assertionMethod": {"@id": "sec:assertionMethod", "@type": "@id", "@container": "@set"},
        "authentication": {"@id": "sec:authenticationMethod", "@type": "@id", "@container": "@set"},
        "capabilityInvocation": {"@id": "sec:capabilityInvocationMethod", "@type": "@id", "@container": "@set"},
        "capabilityDelegation": {"@id": "sec:capabilityDelegationMethod", "@type": "@id", "@container": "@set"},
        "keyAgreement": {"@id": "sec:keyAgreementMethod", "@type": "@id", "@container": "@set"}
      }
    },
    "proofValue": {"@id": "sec:proofValue", "@type": "sec:multibase"},
    "verificationMethod": {"@id": "sec:verificationMethod", "@type": "@id"}
  }
}`

// https://w3id.org/security/suites/ed25519-2020/v1
var ed255192020V1 = `{
  "@context": {
    "id": "@id",
    "type": "@type",
    "@protected": true,
    "Ed25519VerificationKey2020": {
      "@id": "https://w3id.org/security#Ed25519VerificationKey2020",
      "@context": {
        "@protected": true,
        "id": "@id",
        "type": "@type",
        "controller": {"@id": "https://w3id.org/security#controller", "@type": "@id"},
        "revoked": {"@id": "https://w3id.org/security#revoked", "@type": "http://www.w3.org/2001/XMLSchema#dateTime"},
        "publicKeyMultibase": {"@id": "https://w3id.org/security#publicKeyMultibase", "@type": "https://w3id.org/security#multibase"}
      }
    }
  }
}`

// https://w3id.org/security/suites/x25519-2020/v1
var x255192020V1 = `{
  "@context": {
    "id": "@id",
    "type": "@type",
    "@protected": true,
    "X25519KeyAgreementKey2020": {
      "@id": "https://w3id.org/security#X25519KeyAgreementKey2020",
      "@context": {
        "@protected": true,
        "id": "@id",
        "type": "@type",
        "controller": {"@id": "https://w3id.org/security#controller", "@type": "@id"},
        "revoked": {"@id": "https://w3id.org/security#revoked", "@type": "http://www.w3.org/2001/XMLSchema#dateTime"},
        "publicKeyMultibase": {"@id": "https://w3id.org/security#publicKeyMultibase", "@type": "https://w3id.org/security#multibase"}
      }
    }
  }
}`

// Service types referenced by scenarios involving verifiable presentations
// and DIDComm messaging carry their own contexts so canonicalization never
// needs network access to resolve them.
var linkedVPV1 = `{
  "@context": {
    "id": "@id",
    "type": "@type",
    "lvp": "https://identity.foundation/linked-vp/terms#",
    "LinkedVerifiablePresentation": "lvp:LinkedVerifiablePresentation"
  }
}`

var didCommV2 = `{
  "@context": {
    "id": "@id",
    "type": "@type",
    "dc": "https://didcomm.org/terms#",
    "DIDCommMessaging": "dc:DIDCommMessaging"
  }
}`

// https://did-ns.didvh.dev/extensions/v1
var extensionsV1 = `{
  "@context": {
    "id": "@id",
    "type": "@type",
    "@protected": true,
    "extensions": {
      "@id": "https://did-ns.didvh.dev/extensions/v1#extension",
      "@container": "@set",
      "@context": {
        "id": {"@id": "https://did-ns.didvh.dev/extensions/v1#extension-id"},
        "version": {"@id": "https://did-ns.didvh.dev/extensions/v1#extension-version"},
        "data": {"@id": "https://did-ns.didvh.dev/extensions/v1#extension-data"}
      }
    }
  }
}`

type offlineLoader struct {
	docs map[string]*ld.RemoteDocument
}

func (ol *offlineLoader) register(url, raw string) {
	doc, err := ld.DocumentFromReader(bytes.NewReader([]byte(raw)))
	if err != nil {
		// the context literals above are fixed at compile time; a parse
		// failure here is a programming error, not a runtime condition.
		panic(errors.Wrap(err, "invalid builtin context: "+url))
	}
	ol.docs[url] = &ld.RemoteDocument{DocumentURL: url, ContextURL: url, Document: doc}
}

func (ol *offlineLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	doc, ok := ol.docs[u]
	if !ok {
		return nil, errors.Errorf("context loader: no offline document registered for %s", u)
	}
	return doc, nil
}

var (
	loaderLD     *offlineLoader
	processorLD  *ld.JsonLdProcessor
	contextsOnce sync.Once
)

// init constructs the context table and canonicalization processor eagerly
// at package load time, rather than lazily on the first canonicalized
// document.
func init() {
	InitContexts()
}

// InitContexts builds the process-wide offline JSON-LD context table and the
// canonicalization processor. It is safe to call multiple times; only the
// first call has an effect. Construct it explicitly during startup rather
// than relying on lazy initialization on the first canonicalized document.
func InitContexts() {
	contextsOnce.Do(func() {
		loaderLD = &offlineLoader{docs: make(map[string]*ld.RemoteDocument)}
		loaderLD.register(contextDID, didV1)
		loaderLD.register(contextSecurityV1, securityV1)
		loaderLD.register(contextSecurityV2, securityV1)
		loaderLD.register(contextEd25519_2020, ed255192020V1)
		loaderLD.register(contextX25519_2020, x255192020V1)
		loaderLD.register(contextLinkedVP, linkedVPV1)
		loaderLD.register(contextDIDCommV2, didCommV2)
		loaderLD.register(contextExtensionsV1, extensionsV1)
		processorLD = ld.NewJsonLdProcessor()
	})
}

func ldOptions() *ld.JsonLdOptions {
	InitContexts()
	opts := ld.NewJsonLdOptions("")
	opts.ProcessingMode = ld.JsonLd_1_1
	opts.Format = "application/n-quads"
	opts.Algorithm = "URDNA2015"
	opts.DocumentLoader = loaderLD
	return opts
}

// canonicalize produces the URDNA2015 RDF dataset normalization of v,
// encoded as application/n-quads.
// https://json-ld.github.io/normalization/spec
func canonicalize(v interface{}) ([]byte, error) {
	js, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshal document for canonicalization")
	}
	doc := make(map[string]interface{})
	if err = json.Unmarshal(js, &doc); err != nil {
		return nil, errors.Wrap(err, "decode document for canonicalization")
	}

	InitContexts()
	if err := verifyContextsRegistered(doc["@context"]); err != nil {
		return nil, err
	}
	n, err := processorLD.Normalize(doc, ldOptions())
	if err != nil {
		return nil, errors.Wrap(err, "normalize document")
	}
	nd, ok := n.(string)
	if !ok {
		return nil, errors.New("normalized document has unexpected type")
	}
	return []byte(nd), nil
}

// verifyContextsRegistered fails closed with ErrContextResolution if any
// context URL named by the document is not present in the offline loader's
// table (§4.A: "Unknown contexts fail with ContextResolution"). json-gold's
// own loader-miss error is not distinguishable from other normalization
// failures once it has propagated through the processor, so this checks
// every referenced context up front instead of pattern-matching afterwards.
func verifyContextsRegistered(raw interface{}) error {
	var urls []string
	switch v := raw.(type) {
	case string:
		urls = append(urls, v)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				urls = append(urls, s)
			}
		}
	case nil:
		return nil
	default:
		return errors.Wrap(ErrContextResolution, "unsupported @context shape")
	}
	for _, u := range urls {
		if _, ok := loaderLD.docs[u]; !ok {
			return errors.Wrapf(ErrContextResolution, "unregistered context: %s", u)
		}
	}
	return nil
}
