// Package password provides password hashing and verification for dueDash.
//
// New hashes use Argon2id in a PHC-like encoded string, or bcrypt when the
// operator selects it. Verification accepts both formats, so digests written
// by earlier bcrypt-based deployments keep working.
//
// Security notes:
// - Hash strings are treated as untrusted input during Verify and are validated accordingly.
// - Verification refuses Argon2id hashes with parameters that exceed reasonable bounds.
package password
