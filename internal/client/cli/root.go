package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	st := a.session.Current()
	if st.User != nil {
		return fmt.Sprintf("(%s)", st.User.Username)
	}
	return ""
}

// Run resolves the session from the stored token and enters the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	a.session.Resolve(ctx)
	a.Root(ctx)
}

func (a *App) Root(ctx context.Context) {

	fmt.Fprintln(a.out, "Welcome to StudyHub CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "studyhub %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		var err error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(a.out, "Available commands: whoami, points, invite, invited, leaderboard [n], user <id>, update, logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: register, login, leaderboard [n], user <id>, exit")
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			a.Logout()
		case "whoami":
			err = a.whoami()
		case "points":
			err = a.points(ctx)
		case "invite":
			err = a.inviteInfo(ctx)
		case "invited":
			err = a.invitedUsers(ctx)
		case "leaderboard":
			err = a.leaderboard(ctx, args)
		case "user":
			err = a.userProfile(ctx, args)
		case "update":
			err = a.updateProfile(ctx)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
		}
	}
}
