package didlog

import "encoding/json"

// MarshalJSON encodes a VMRef as either the embedded verification method
// object or a bare string id reference.
func (r VMRef) MarshalJSON() ([]byte, error) {
	if r.Embedded != nil {
		return json.Marshal(r.Embedded)
	}
	return json.Marshal(r.Ref)
}

// UnmarshalJSON decodes a VMRef from either a bare string id reference or
// an embedded verification method object.
func (r *VMRef) UnmarshalJSON(b []byte) error {
	var ref string
	if err := json.Unmarshal(b, &ref); err == nil {
		r.Ref = ref
		return nil
	}
	var vm VerificationMethod
	if err := json.Unmarshal(b, &vm); err != nil {
		return err
	}
	r.Embedded = &vm
	return nil
}

// ID returns the verification method id this reference points to,
// regardless of whether it is embedded or a bare reference.
func (r VMRef) ID() string {
	if r.Embedded != nil {
		return r.Embedded.ID
	}
	return r.Ref
}
