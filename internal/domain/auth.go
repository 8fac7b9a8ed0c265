package domain

// TokenCodec issues and verifies bearer tokens for a user ID.
// Implementations range from the unsigned demo codec to signed JWTs.
type TokenCodec interface {
	Issue(userID string) (string, error)
	Verify(token string) (userID string, err error)
}

// PasswordVerifier turns a plaintext password into its stored form and
// checks a login attempt against the stored form.
type PasswordVerifier interface {
	Hash(password string) (string, error)
	Compare(stored, password string) error
}
