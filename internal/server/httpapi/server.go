// Package httpapi exposes the account service over REST. Responses use the
// `{code,message,data}` envelope; collections add `{total,page,page_size}`.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/studyhub/studyhub/internal/common"
	"github.com/studyhub/studyhub/internal/logging"
	"github.com/studyhub/studyhub/internal/server/auth"
	"github.com/studyhub/studyhub/internal/server/models"
	"github.com/studyhub/studyhub/internal/server/users"
)

// Server holds the handler dependencies.
type Server struct {
	users         *users.Service
	logger        logging.Logger
	secretKey     []byte
	tokenValidity time.Duration
}

func NewServer(svc *users.Service, logger logging.Logger, secretKey []byte, tokenValidity time.Duration) *Server {
	return &Server{
		users:         svc,
		logger:        logger,
		secretKey:     secretKey,
		tokenValidity: tokenValidity,
	}
}

// Handler builds the route table. All routes live under /api/v1.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/validate-invite-code", s.handleValidateInviteCode)

	mux.Handle("GET /api/v1/users/me", s.withUser(s.handleGetMe))
	mux.Handle("PUT /api/v1/users/me", s.withUser(s.handleUpdateMe))
	mux.Handle("GET /api/v1/users/me/points", s.withUser(s.handleMyPoints))
	mux.Handle("GET /api/v1/users/me/invite-code", s.withUser(s.handleMyInviteCode))
	mux.Handle("GET /api/v1/users/me/invited-users", s.withUser(s.handleMyInvitedUsers))
	mux.HandleFunc("GET /api/v1/users/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("GET /api/v1/users/{id}", s.handleGetUser)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

type contextKey int

const userKey contextKey = iota

func userFrom(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// withUser authenticates the bearer token and stashes the resolved account
// in the request context. Missing, invalid or expired tokens and disabled
// accounts all yield 401.
func (s *Server) withUser(next func(http.ResponseWriter, *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.secretKey)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrTokenExpired):
				writeError(w, http.StatusUnauthorized, "token expired")
			default:
				writeError(w, http.StatusUnauthorized, "invalid token")
			}
			return
		}

		user, err := s.users.GetByID(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if !user.IsActive {
			writeError(w, http.StatusUnauthorized, "account is disabled")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}
