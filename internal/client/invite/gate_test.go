package invite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studyhub/studyhub/internal/client/api"
)

// validateFunc adapts a function to the single api.Client method the gate
// uses; the rest of the interface is never reached from here.
type validateFunc func(ctx context.Context, code string) (*api.InviteCodeValidation, error)

type fakeValidator struct {
	api.Client
	fn    validateFunc
	calls int
}

func (f *fakeValidator) ValidateInviteCode(ctx context.Context, code string) (*api.InviteCodeValidation, error) {
	f.calls++
	return f.fn(ctx, code)
}

func TestCheck_ShortCode_NoNetworkCall(t *testing.T) {
	fc := &fakeValidator{fn: func(ctx context.Context, code string) (*api.InviteCodeValidation, error) {
		t.Fatal("must not be called")
		return nil, nil
	}}
	g := NewGate(fc)

	res := g.Check(context.Background(), "ABCDE") // 5 chars

	assert.False(t, res.Checked)
	assert.False(t, res.Valid)
	assert.Equal(t, 0, fc.calls)
}

func TestCheck_ValidCode_ReportsInviter(t *testing.T) {
	fc := &fakeValidator{fn: func(ctx context.Context, code string) (*api.InviteCodeValidation, error) {
		assert.Equal(t, "ABCDEF", code)
		return &api.InviteCodeValidation{
			Valid:   true,
			Message: "OK",
			Inviter: &api.UserPublic{Username: "alice"},
		}, nil
	}}
	g := NewGate(fc)

	res := g.Check(context.Background(), "ABCDEF")

	assert.True(t, res.Checked)
	assert.True(t, res.Valid)
	assert.Equal(t, "alice", res.InviterName)
	assert.True(t, res.ValidFor("ABCDEF"))
}

func TestCheck_InviterNicknamePreferred(t *testing.T) {
	fc := &fakeValidator{fn: func(ctx context.Context, code string) (*api.InviteCodeValidation, error) {
		return &api.InviteCodeValidation{
			Valid:   true,
			Message: "OK",
			Inviter: &api.UserPublic{Username: "alice", Nickname: "Allie"},
		}, nil
	}}

	res := NewGate(fc).Check(context.Background(), "ABCDEF")
	assert.Equal(t, "Allie", res.InviterName)
}

func TestCheck_RejectedCode(t *testing.T) {
	fc := &fakeValidator{fn: func(ctx context.Context, code string) (*api.InviteCodeValidation, error) {
		return &api.InviteCodeValidation{Valid: false, Message: "invite code not found"}, nil
	}}

	res := NewGate(fc).Check(context.Background(), "NOCODE")

	assert.True(t, res.Checked)
	assert.False(t, res.Valid)
	assert.Equal(t, "invite code not found", res.Message)
	assert.False(t, res.ValidFor("NOCODE"))
}

func TestCheck_NetworkFailure_DistinctMessage(t *testing.T) {
	fc := &fakeValidator{fn: func(ctx context.Context, code string) (*api.InviteCodeValidation, error) {
		return nil, errors.New("connection refused")
	}}

	res := NewGate(fc).Check(context.Background(), "ABCDEF")

	assert.True(t, res.Checked)
	assert.False(t, res.Valid)
	assert.Equal(t, NetworkFailureMessage, res.Message)
}

func TestValidFor_KeyedToExactCode(t *testing.T) {
	fc := &fakeValidator{fn: func(ctx context.Context, code string) (*api.InviteCodeValidation, error) {
		return &api.InviteCodeValidation{Valid: true, Message: "OK"}, nil
	}}

	res := NewGate(fc).Check(context.Background(), "ABCDEF")

	assert.True(t, res.ValidFor("ABCDEF"))
	assert.False(t, res.ValidFor("ABCDEG"), "edited code must count as unchecked")
	assert.False(t, res.ValidFor(""))
}

func TestValidFor_ZeroValueNeverValid(t *testing.T) {
	assert.False(t, Result{}.ValidFor(""))
	assert.False(t, Result{}.ValidFor("ABCDEF"))
}
