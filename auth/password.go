package auth

import "golang.org/x/crypto/bcrypt"

// bcryptCost 12 keeps hashing deliberately slow for stored credentials.
const bcryptCost = 12

// HashPassword hashes a raw password with a randomized salt.
func HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a stored hash against a raw password candidate.
// bcrypt's comparison is constant-time with respect to the hash.
func CheckPassword(hash, raw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw))
}
