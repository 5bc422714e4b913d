package utils

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is exported so tests can drop it to bcrypt.MinCost.
var HashCost = bcrypt.DefaultCost

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), HashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// BurnPasswordCheck spends the same time as CheckPassword against a real
// hash. Call it when there is no user to check against.
func BurnPasswordCheck(pw string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), HashCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(pw))
}
