/*
Package resolver exposes did:log resolution through an HTTP endpoint
compatible with the DIF Universal Resolver specification.

DID resolution is the process of obtaining a DID document for a given DID.
Building on top of resolution, DID URL dereferencing retrieves a
representation of a resource identified by a DID URL. This package only
implements "Resolve"/"ResolveRepresentation"; "Create" and "Update" are the
package-level didlog.CreateDID and didlog.UpdateDID functions, since those
require access to signing keys a public resolution endpoint shouldn't hold.

More information:
https://w3c-ccg.github.io/did-resolution
*/
package resolver
