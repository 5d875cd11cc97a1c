package didlog

import (
	"strings"

	"go.didvh.dev/didlog/errors"
)

// Method is this DID method's registered name.
const Method = "log"

// Protocol is the log-format version number.
const Protocol = "1"

// ProtocolTag is the exact string carried in the genesis entry's patch
// "method" field, e.g. "didlog-1".
const ProtocolTag = "didlog-" + Protocol

// scidLength is the fixed length, in multibase characters, of a genesis
// entry hash used as a DID's self-certifying suffix.
const scidLength = 24

// ParsedDID is the decomposition of a did:log identifier string.
type ParsedDID struct {
	SCID   string
	Domain string // decoded (dots, not colons); empty if none
}

// FormatDID builds the DID string "did:log:<scid>[:<domain-colon-encoded>]".
// scid must either be scidLength multibase characters, or the placeholder
// sentinel used while the genesis document's self-certifying suffix is not
// yet known (see buildGenesisPatch).
func FormatDID(scid, domain string) (string, error) {
	if scid != scidPlaceholder && len(scid) != scidLength {
		return "", errors.Errorf("scid must be %d characters, got %d", scidLength, len(scid))
	}
	did := "did:" + Method + ":" + scid
	if domain != "" {
		did += ":" + encodeDomain(domain)
	}
	return did, nil
}

// ParseDID decomposes a did:log identifier string into its SCID and
// (decoded) domain components.
func ParseDID(did string) (*ParsedDID, error) {
	parts := strings.Split(did, ":")
	if len(parts) < 3 || parts[0] != "did" || parts[1] != Method {
		return nil, errors.Errorf("not a valid did:%s identifier: %s", Method, did)
	}
	scid := parts[2]
	if len(scid) != scidLength {
		return nil, errors.Errorf("invalid scid length in %s", did)
	}
	for i := 0; i < len(scid); i++ {
		if isNotValidIDChar(scid[i]) {
			return nil, errors.Errorf("invalid scid character in %s", did)
		}
	}
	p := &ParsedDID{SCID: scid}
	if len(parts) > 3 {
		p.Domain = decodeDomain(strings.Join(parts[3:], ":"))
	}
	return p, nil
}

// encodeDomain replaces "." with ":" in a DNS label, e.g.
// "migrated.example.com" -> "migrated:example:com".
func encodeDomain(domain string) string {
	return strings.ReplaceAll(domain, ".", ":")
}

// decodeDomain reverses encodeDomain.
func decodeDomain(encoded string) string {
	return strings.ReplaceAll(encoded, ":", ".")
}
