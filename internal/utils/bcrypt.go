package utils

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the fixed work factor for stored password hashes.
const BcryptCost = 10

// HashPassword salts and hashes a plaintext password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a plaintext password with a stored hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BcryptHasher adapts HashPassword/CheckPasswordHash to an injectable hasher
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) { return HashPassword(password) }

func (BcryptHasher) Verify(password, hash string) bool { return CheckPasswordHash(password, hash) }
