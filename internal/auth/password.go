package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost matches the cost existing hashes were created with.
const PasswordCost = 10

// maxBcryptInput is the longest password bcrypt accepts.
const maxBcryptInput = 72

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
	// NeedsRehash reports whether a verified hash should be replaced.
	NeedsRehash(hash string) bool
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: PasswordCost}
}

func (b *BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword(bcryptInput(password), b.Cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (b *BcryptHasher) Compare(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

// NeedsRehash is true for hashes made with a cost other than b.Cost.
func (b *BcryptHasher) NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err == nil && cost != b.Cost
}

// bcryptInput passes short passwords through unchanged. Longer ones are
// reduced to a base64 SHA-256 digest (44 bytes) so every byte counts.
func bcryptInput(password string) []byte {
	if len(password) <= maxBcryptInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
