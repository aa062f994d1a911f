// Package auth turns email/password pairs into bearer tokens and bearer
// tokens back into user identities.
//
// Passwords are kept as bcrypt digests. A successful login hands out an
// opaque random token; only its SHA-256 digest is persisted, so a copy of
// the token table cannot be replayed against the api.
//
// A token is valid for as long as its digest is present in the token store.
// There is no signature to check and, unless a TTL is configured, no expiry:
// tokens live until the owner logs out.
//
// Logging out revokes every token of the user, not only the one used to
// call logout. Every device of the user has to log in again.
//
// Resource ownership is checked by Authorize, which every handler touching
// a single task goes through.
package auth
