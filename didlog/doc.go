/*
Package didlog implements a self-certifying DID method backed by an
append-only, hash-chained log of document versions.

An identifier is derived once, at creation time, as a content hash (the
"SCID") of its own genesis document; every later version is recorded as a
JSON Patch against the previous document plus a Data Integrity proof,
chained to the prior entry through a truncated multibase SHA-256 hash of
the JSON-encoded (previous entry hash, patch) pair.
Resolving an identifier means replaying its log from genesis and checking
every invariant described in the method specification along the way: hash
chain continuity, monotone version numbers and timestamps, SCID binding,
and proof validity.

More information:
https://www.w3.org/TR/did-core/
https://identity.foundation/didwebvh/
*/
package didlog
