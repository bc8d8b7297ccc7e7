package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/studyhub/studyhub/internal/client/api"
)

var errNotLoggedIn = errors.New("not logged in")

func (a *App) whoami() error {
	st := a.session.Current()
	if !st.IsAuthenticated() {
		return errNotLoggedIn
	}

	u := st.User
	fmt.Fprintf(a.out, "%s <%s>\n", u.Username, u.Email)
	if u.Nickname != "" {
		fmt.Fprintf(a.out, "  nickname: %s\n", u.Nickname)
	}
	if u.Bio != "" {
		fmt.Fprintf(a.out, "  bio:      %s\n", u.Bio)
	}
	fmt.Fprintf(a.out, "  role:     %s\n", u.Role)
	fmt.Fprintf(a.out, "  level:    %d (%d xp)\n", u.Level, u.Experience)
	fmt.Fprintf(a.out, "  points:   %d (earned %d total)\n", u.Points, u.TotalPointsEarned)
	fmt.Fprintf(a.out, "  invited:  %d users\n", u.InvitedCount)
	return nil
}

func (a *App) points(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	p, err := a.client.GetMyPoints(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Points: %d (earned %d total), level %d with %d xp\n",
		p.Points, p.TotalEarned, p.Level, p.Experience)
	return nil
}

func (a *App) inviteInfo(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	info, err := a.client.GetMyInviteCode(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Invite code: %s (%d uses left)\n", info.Code, info.RemainingQuota)
	return nil
}

func (a *App) invitedUsers(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	users, err := a.client.GetMyInvitedUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "No invited users yet")
		return nil
	}
	for _, u := range users {
		fmt.Fprintf(a.out, "  %-20s level %d, joined %s\n",
			u.DisplayName(), u.Level, u.CreatedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *App) leaderboard(ctx context.Context, args []string) error {
	limit := 0
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("usage: leaderboard [n]")
		}
		limit = n
	}

	top, err := a.client.GetLeaderboard(ctx, limit)
	if err != nil {
		return err
	}
	for i, u := range top {
		fmt.Fprintf(a.out, "%3d. %-20s %d points (level %d)\n", i+1, u.DisplayName(), u.Points, u.Level)
	}
	return nil
}

func (a *App) userProfile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: user <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("usage: user <id>")
	}

	u, err := a.client.GetUserProfile(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s — level %d %s, joined %s\n",
		u.DisplayName(), u.Level, u.Role, u.CreatedAt.Format("2006-01-02"))
	if u.Bio != "" {
		fmt.Fprintf(a.out, "  %s\n", u.Bio)
	}
	return nil
}

// updateProfile edits the mutable profile fields. Empty input keeps the
// current value. After a successful update the session re-fetches the
// profile so every consumer sees the fresh snapshot.
func (a *App) updateProfile(ctx context.Context) error {
	st := a.session.Current()
	if !st.IsAuthenticated() {
		return errNotLoggedIn
	}

	patch, changed, err := a.collectProfilePatch(st.User.Nickname, st.User.Bio)
	if err != nil {
		return err
	}
	if !changed {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	if _, err := a.client.UpdateCurrentUser(ctx, patch); err != nil {
		return err
	}
	a.session.RefreshUser(ctx)
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

// collectProfilePatch prompts for the editable fields and builds a patch of
// only the ones the user filled in.
func (a *App) collectProfilePatch(curNickname, curBio string) (api.ProfileUpdate, bool, error) {
	var patch api.ProfileUpdate
	changed := false

	nickname, err := getSimpleText(a.reader,
		fmt.Sprintf("Nickname [%s] (empty to keep)", curNickname), a.out)
	if err != nil {
		return patch, false, err
	}
	if nickname != "" {
		patch.Nickname = &nickname
		changed = true
	}

	bio, err := getSimpleText(a.reader,
		fmt.Sprintf("Bio [%s] (empty to keep)", curBio), a.out)
	if err != nil {
		return patch, false, err
	}
	if bio != "" {
		patch.Bio = &bio
		changed = true
	}

	avatar, err := getSimpleText(a.reader, "Avatar URL (empty to keep)", a.out)
	if err != nil {
		return patch, false, err
	}
	if avatar != "" {
		patch.Avatar = &avatar
		changed = true
	}

	return patch, changed, nil
}
