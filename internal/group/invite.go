package group

import (
	"crypto/rand"
	"math/big"
)

const (
	inviteCodeLength   = 8
	inviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateInviteCode produces a uniformly random uppercase alphanumeric code
// used to join a group. Uniqueness is enforced by the database; callers retry
// on collision.
func GenerateInviteCode() (string, error) {
	alphabetLen := big.NewInt(int64(len(inviteCodeAlphabet)))
	code := make([]byte, inviteCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		code[i] = inviteCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
