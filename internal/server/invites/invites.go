// Package invites holds the invite-code rules: code generation and the
// validation verdicts returned to prospective registrants.
package invites

import (
	"crypto/rand"
	"math/big"

	"github.com/studyhub/studyhub/internal/server/models"
)

const (
	// CodeLength is the length of generated invite codes.
	CodeLength = 8
	// MinCodeLength is the shortest code accepted for validation.
	MinCodeLength = 6

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Verdict messages surfaced to the registration form.
const (
	MsgValid          = "invite code is valid"
	MsgNotFound       = "invite code not found"
	MsgInviterBlocked = "inviter account is disabled"
	MsgQuotaExhausted = "invite code has reached its usage limit"
)

// GenerateCode returns a fresh random code over [A-Z0-9]. Uniqueness is the
// caller's responsibility (regenerate on collision).
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	max := big.NewInt(int64(len(alphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf), nil
}

// Validate applies the verdict rules to the code's owner as looked up by the
// caller (nil when no owner exists). It returns whether the code may be
// used, the message for the form, and the inviter when valid.
func Validate(inviter *models.User) (bool, string, *models.User) {
	if inviter == nil {
		return false, MsgNotFound, nil
	}
	if !inviter.IsActive {
		return false, MsgInviterBlocked, nil
	}
	if inviter.InviteQuota <= 0 {
		return false, MsgQuotaExhausted, nil
	}
	return true, MsgValid, inviter
}
