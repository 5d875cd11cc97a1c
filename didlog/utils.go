package didlog

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/mr-tron/base58"
	"go.didvh.dev/didlog/errors"
)

// hashSHA256 returns the SHA-256 digest of data.
func hashSHA256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// multibaseEncode encodes data as a base58btc multibase value, the "z"
// prefixed form used throughout the DID/Linked-Data-Proofs ecosystem.
// https://datatracker.ietf.org/doc/html/draft-multiformats-multibase-03
func multibaseEncode(data []byte) string {
	return "z" + base58.Encode(data)
}

// multibaseDecode decodes a multibase-prefixed value. Only base58btc ("z")
// is produced by this implementation; the remaining cases are accepted for
// interoperability with documents authored elsewhere.
func multibaseDecode(src string) ([]byte, error) {
	if len(src) == 0 {
		return nil, errors.New("empty multibase value")
	}
	base := src[:1]
	data := src[1:]
	switch base {
	case "z": // base58btc
		return base58.Decode(data)
	case "f": // base16
		return hex.DecodeString(data)
	case "m": // base64, no padding
		return base64.RawStdEncoding.DecodeString(data)
	case "M": // base64pad
		return base64.StdEncoding.DecodeString(data)
	case "u": // base64url, no padding
		return base64.RawURLEncoding.DecodeString(data)
	case "U": // base64urlpad
		return base64.URLEncoding.DecodeString(data)
	default:
		return nil, errors.Errorf("unsupported multibase identifier: %s", base)
	}
}
