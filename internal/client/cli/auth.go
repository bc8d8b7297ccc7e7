package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/studyhub/studyhub/internal/client/api"
)

// getSimpleText, getPassword and getConfirm are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getConfirm    = GetConfirm
)

// MinPasswordLength mirrors the backend's registration rule; shorter
// passwords are rejected locally before any network call.
const MinPasswordLength = 8

var (
	errPasswordMismatch  = errors.New("passwords do not match")
	errPasswordTooShort  = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	errTermsNotAccepted  = errors.New("the terms of service and privacy policy must be accepted")
	errInviteCodeInvalid = errors.New("a valid invite code is required")
)

// Login prompts for credentials and authenticates. On success the session
// stores the token and resolves the profile; on failure the error is
// returned for display and nothing is persisted.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, userName, string(password)); err != nil {
		return err
	}

	if st := a.session.Current(); st.IsAuthenticated() {
		fmt.Fprintf(a.out, "Logged in as %s\n", st.User.Username)
	}
	return nil
}

// Register walks the registration form. Local validation runs strictly
// before any network traffic: password confirmation, minimum length, terms
// agreement. The invite code is then pre-validated through the gate, keyed
// to the exact code entered; only a positive verdict lets the submission
// proceed. On success the session logs in with the new credentials.
func (a *App) Register(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := getPassword("Confirm password", a.out)
	if err != nil {
		return err
	}

	if string(password) != string(confirm) {
		return errPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		return errPasswordTooShort
	}

	agreed, err := getConfirm(a.reader, "Do you agree to the terms of service and privacy policy?", a.out)
	if err != nil {
		return err
	}
	if !agreed {
		return errTermsNotAccepted
	}

	code, err := getSimpleText(a.reader, "Enter invite code", a.out)
	if err != nil {
		return err
	}

	res := a.gate.Check(ctx, code)
	if !res.ValidFor(code) {
		if res.Message != "" {
			fmt.Fprintln(a.out, res.Message)
		}
		return errInviteCodeInvalid
	}
	if res.InviterName != "" {
		fmt.Fprintf(a.out, "Invited by %s\n", res.InviterName)
	}

	err = a.session.Register(ctx, api.RegisterData{
		Username:   userName,
		Email:      email,
		Password:   string(password),
		InviteCode: code,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registration successful!")
	return nil
}

// Logout clears the stored token and drops the session to anonymous. The
// transition is synchronous.
func (a *App) Logout() {
	a.session.Logout()
	fmt.Fprintln(a.out, "Logged out")
}
