package ports

// PasswordHasher hashes and verifies passwords with a slow, salted one-way
// function. Two hashes of the same plaintext differ.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
