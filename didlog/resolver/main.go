package resolver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.didvh.dev/didlog/didlog"
	"go.didvh.dev/didlog/errors"
)

type jsonEncoder struct{}

func (jsonEncoder) Encode(doc interface{}) ([]byte, error) {
	return json.Marshal(doc)
}

var jsEnc Encoder = jsonEncoder{}

// Instance is the main utility provided by this package: the low-level
// resolve functions, plus an HTTP handler exposing them for public
// consumption.
// https://w3c-ccg.github.io/did-resolution/#resolving-algorithm
type Instance struct {
	provider LogProvider
	encoders map[string]Encoder
}

// New returns a ready-to-use resolver instance backed by provider, the hook
// responsible for retrieving a DID's log from whatever storage backs it.
func New(provider LogProvider, opts ...Option) (*Instance, error) {
	i := &Instance{
		provider: provider,
		encoders: map[string]Encoder{
			ContentTypeLD:          jsEnc,
			ContentTypeDocument:    jsEnc,
			ContentTypeWithProfile: jsEnc,
		},
	}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	return i, nil
}

// Resolve a did:log identifier into a DID document.
// https://www.w3.org/TR/did-core/#did-resolution
func (ri *Instance) Resolve(id string, opts *ResolutionOptions) (*Result, error) {
	if opts == nil {
		opts = new(ResolutionOptions)
	}
	_ = opts.Validate()

	res := &Result{
		Context: []interface{}{ldContext},
		ResolutionMetadata: &ResolutionMetadata{
			ContentType: opts.Accept,
			Retrieved:   time.Now().UTC().Format(time.RFC3339),
		},
	}

	doc, meta, err := ri.read(id, opts.VersionID)
	if err != nil {
		res.ResolutionMetadata.Error = err.Error()
		return res, err
	}
	res.Document = doc
	res.DocumentMetadata = meta
	return res, nil
}

// ResolveRepresentation resolves a did:log identifier and encodes the
// resulting document using the representation requested in opts.Accept.
// https://www.w3.org/TR/did-core/#did-resolution
func (ri *Instance) ResolveRepresentation(id string, opts *ResolutionOptions) (*Result, error) {
	if opts == nil {
		opts = new(ResolutionOptions)
	}
	_ = opts.Validate()

	res := &Result{
		Context: []interface{}{ldContext},
		ResolutionMetadata: &ResolutionMetadata{
			ContentType: opts.Accept,
			Retrieved:   time.Now().UTC().Format(time.RFC3339),
		},
	}

	enc, ok := ri.encoders[opts.Accept]
	if !ok {
		err := errors.New(ErrRepresentationNotSupported)
		res.ResolutionMetadata.Error = err.Error()
		return res, err
	}

	doc, meta, err := ri.read(id, opts.VersionID)
	if err != nil {
		res.ResolutionMetadata.Error = err.Error()
		return res, err
	}
	res.Document = doc
	res.DocumentMetadata = meta

	res.Representation, err = enc.Encode(res.Document)
	if err != nil {
		res.ResolutionMetadata.Error = err.Error()
		return res, err
	}
	return res, nil
}

// read validates id, fetches its log, and resolves it at versionID (0 for
// latest), normalizing every failure into one of the DIF error codes.
func (ri *Instance) read(id string, versionID int) (*didlog.DIDDocument, *didlog.DocumentMetadata, error) {
	if _, err := didlog.ParseDID(id); err != nil {
		return nil, nil, errors.New(ErrInvalidDID)
	}

	log, err := ri.provider(id)
	if err != nil || len(log) == 0 {
		return nil, nil, errors.New(ErrNotFound)
	}

	resolution, err := didlog.ResolveDID(log, versionID)
	if err != nil {
		return nil, nil, errors.Wrap(err, ErrInternal)
	}
	return resolution.Document, &resolution.Metadata, nil
}

// ResolutionHandler exposes Resolve/ResolveRepresentation through an HTTP
// endpoint compatible with the DIF specification.
// https://w3c-ccg.github.io/did-resolution/#bindings-https
func (ri *Instance) ResolutionHandler(rw http.ResponseWriter, rq *http.Request) {
	id := strings.TrimPrefix(rq.URL.Path, "/1.0/identifiers/")

	opts := new(ResolutionOptions)
	opts.FromRequest(rq)
	_ = opts.Validate()

	var (
		res *Result
		err error
	)
	if strings.Count(opts.Accept, "json") > 0 {
		res, err = ri.Resolve(id, opts)
	} else {
		res, err = ri.ResolveRepresentation(id, opts)
	}

	if err != nil {
		rw.Header().Set("Content-Type", ContentTypeWithProfile+";charset=utf-8")
		rw.WriteHeader(errToStatus(res.ResolutionMetadata.Error))
		_ = json.NewEncoder(rw).Encode(res)
		return
	}

	if res.DocumentMetadata != nil && res.DocumentMetadata.Deactivated {
		rw.Header().Set("Content-Type", ContentTypeWithProfile+";charset=utf-8")
		rw.WriteHeader(deactivatedStatus)
		_ = json.NewEncoder(rw).Encode(res)
		return
	}

	// https://w3c-ccg.github.io/did-resolution/#did-resolution-result
	switch opts.Accept {
	case ContentTypeLD, ContentTypeDocument:
		rw.Header().Set("Content-Type", ContentTypeDocument+";charset=utf-8")
		_ = json.NewEncoder(rw).Encode(res.Document)
	case ContentTypeWithProfile:
		rw.Header().Set("Content-Type", ContentTypeWithProfile+";charset=utf-8")
		_ = json.NewEncoder(rw).Encode(res)
	default:
		rw.Header().Set("Content-Type", opts.Accept)
		_, _ = rw.Write(res.Representation)
	}
}
