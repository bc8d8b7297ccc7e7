// Package invite implements the pre-registration invite-code check. The
// verdict is keyed to the exact code that was validated, so editing the code
// after a successful check automatically invalidates the result.
package invite

import (
	"context"

	"github.com/studyhub/studyhub/internal/client/api"
)

// MinCodeLength is the shortest code worth sending to the server; anything
// shorter short-circuits to an unchecked, invalid Result locally.
const MinCodeLength = 6

// NetworkFailureMessage distinguishes a transient verification failure from
// a genuinely rejected code.
const NetworkFailureMessage = "verification failed, check your connection"

// Result is the outcome of one validation attempt. Zero value means
// "not checked".
type Result struct {
	// Checked reports whether the server was actually consulted.
	Checked bool
	// Valid is the server's verdict. Meaningful only when Checked.
	Valid bool
	// Message is the server's explanation, or NetworkFailureMessage.
	Message string
	// InviterName is the display name of the code's owner when Valid.
	InviterName string

	code string
}

// ValidFor reports whether this result is a positive verdict for exactly the
// given code. A result never validates a code other than the one it was
// produced for.
func (r Result) ValidFor(code string) bool {
	return r.Checked && r.Valid && r.code == code
}

// Gate performs invite-code pre-validation against the backend.
type Gate struct {
	client api.Client
}

func NewGate(client api.Client) *Gate {
	return &Gate{client: client}
}

// Check validates code. Codes shorter than MinCodeLength yield an unchecked
// Result without a network call. A transport failure yields a checked,
// invalid Result with NetworkFailureMessage rather than an error: the form
// shows the message and the user simply retries.
func (g *Gate) Check(ctx context.Context, code string) Result {
	if len(code) < MinCodeLength {
		return Result{}
	}

	v, err := g.client.ValidateInviteCode(ctx, code)
	if err != nil {
		// The endpoint reports bad codes inside a 2xx body (valid=false), so
		// any error here is a failure to complete the check, not a verdict.
		return Result{Checked: true, Valid: false, Message: NetworkFailureMessage, code: code}
	}

	res := Result{Checked: true, Valid: v.Valid, Message: v.Message, code: code}
	if v.Inviter != nil {
		res.InviterName = v.Inviter.DisplayName()
	}
	return res
}
