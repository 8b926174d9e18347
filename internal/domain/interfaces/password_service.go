package interfaces

// PasswordHasher is the hashing capability used for both passwords and
// one-time passwords. Verify never reports an error for a plain mismatch,
// only for malformed digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(digest, plaintext string) (bool, error)
}
