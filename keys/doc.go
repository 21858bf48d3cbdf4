// Package keys derives the stable field keys used for repeated detail
// elements and allocates occurrence indexes for appends.
//
// A stable key is "<digest>_<index>": a short printable prefix of
// SHA-256 over (document id, tag, fixed salt), then the zero-based
// occurrence index in decimal. The digest input and encoding are fixed
// so that independent implementations with no shared state produce
// byte-identical keys for the same inputs; SHA-256 and the salt string
// are the entire cross-implementation contract.
//
// The default prefix is 6 characters of base64url, which is ample for
// uniqueness within a single document. When two different tags in one
// document happen to share a truncated prefix, the encoder retries with
// prefixes extended by DigestStep until the collision clears; the chosen
// length is implicit in the stored key and needs no bookkeeping.
package keys
