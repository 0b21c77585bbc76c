package auth

import "golang.org/x/crypto/bcrypt"

// BcryptManager implements PasswordManager with bcrypt
type BcryptManager struct {
	cost int
}

// NewBcryptManager creates a new BcryptManager. A cost of 0 uses bcrypt.DefaultCost.
func NewBcryptManager(cost int) *BcryptManager {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptManager{cost: cost}
}

// Hash generates a bcrypt hash of the password
func (m *BcryptManager) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), m.cost)
	return string(hash), err
}

// Compare returns nil when password matches the hash
func (m *BcryptManager) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
