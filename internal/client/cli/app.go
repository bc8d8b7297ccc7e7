// Package cli implements the interactive StudyHub client: a small REPL over
// the session state machine and the typed API bindings.
package cli

import (
	"bufio"
	"io"
	"log/slog"
	"os"

	"github.com/studyhub/studyhub/internal/client/api"
	"github.com/studyhub/studyhub/internal/client/config"
	"github.com/studyhub/studyhub/internal/client/invite"
	"github.com/studyhub/studyhub/internal/client/session"
	"github.com/studyhub/studyhub/internal/client/token"
	"github.com/studyhub/studyhub/internal/logging"
)

type App struct {
	config  *config.Config
	client  api.Client
	session *session.Session
	gate    *invite.Gate
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp wires the client stack: file-backed token store, HTTP API client
// reading the token through the store, the session state machine, and the
// invite-code gate.
func NewApp(c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	tokens := token.NewFileStore(c.TokenDir)
	apiClient := api.NewHTTPClient(c.ServerBaseURL, tokens, c.RequestTimeout)

	return &App{
		config:  c,
		client:  apiClient,
		session: session.New(apiClient, tokens, log),
		gate:    invite.NewGate(apiClient),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().IsAuthenticated()
}
