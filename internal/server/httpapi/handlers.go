package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/studyhub/studyhub/internal/common"
	"github.com/studyhub/studyhub/internal/server/auth"
	"github.com/studyhub/studyhub/internal/server/models"
	"github.com/studyhub/studyhub/internal/server/users"
)

type registerRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := s.users.Register(r.Context(), users.RegisterParams{
		Username:   req.Username,
		Email:      req.Email,
		Password:   req.Password,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUsernameTaken):
			writeError(w, http.StatusConflict, "username is already taken")
		case errors.Is(err, common.ErrorEmailTaken):
			writeError(w, http.StatusConflict, "email is already registered")
		case errors.Is(err, common.ErrorValidation),
			errors.Is(err, common.ErrorInviteCodeInvalid):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error(r.Context(), "register failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeData(w, http.StatusCreated, user.Out())
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleLogin consumes form-encoded credentials and returns a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form body")
		return
	}
	identifier := r.PostFormValue("username")
	password := r.PostFormValue("password")

	user, err := s.users.Authenticate(r.Context(), identifier, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "incorrect username or password")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := auth.GenerateToken(user.ID, s.secretKey, s.tokenValidity)
	if err != nil {
		s.logger.Error(r.Context(), "token generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

type validateInviteRequest struct {
	InviteCode string `json:"invite_code"`
}

type validateInviteResponse struct {
	Valid   bool              `json:"valid"`
	Message string            `json:"message"`
	Inviter *models.PublicOut `json:"inviter"`
}

func (s *Server) handleValidateInviteCode(w http.ResponseWriter, r *http.Request) {
	var req validateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	ok, msg, inviter, err := s.users.ValidateInviteCode(r.Context(), req.InviteCode)
	if err != nil {
		s.logger.Error(r.Context(), "invite validation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := validateInviteResponse{Valid: ok, Message: msg}
	if inviter != nil {
		pub := inviter.Public()
		resp.Inviter = &pub
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	_, invited, err := s.users.GetProfile(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "profile lookup failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, user.Profile(invited))
}

type updateMeRequest struct {
	Nickname *string `json:"nickname"`
	Avatar   *string `json:"avatar"`
	Bio      *string `json:"bio"`
	Phone    *string `json:"phone"`
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user := userFrom(r.Context())
	updated, err := s.users.Update(r.Context(), user.ID, users.ProfilePatch{
		Nickname: req.Nickname,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
		Phone:    req.Phone,
	})
	if err != nil {
		s.logger.Error(r.Context(), "profile update failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, updated.Out())
}

type pointsResponse struct {
	Points      int `json:"points"`
	TotalEarned int `json:"total_earned"`
	Level       int `json:"level"`
	Experience  int `json:"experience"`
}

func (s *Server) handleMyPoints(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	writeJSON(w, http.StatusOK, pointsResponse{
		Points:      user.Points,
		TotalEarned: user.TotalPointsEarned,
		Level:       user.Level,
		Experience:  user.Experience,
	})
}

type inviteCodeInfo struct {
	Code           string             `json:"code"`
	RemainingQuota int                `json:"remaining_quota"`
	InvitedUsers   []models.PublicOut `json:"invited_users"`
}

func (s *Server) handleMyInviteCode(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	invited, err := s.users.InvitedUsers(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "invited users lookup failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, inviteCodeInfo{
		Code:           user.InviteCode,
		RemainingQuota: user.InviteQuota,
		InvitedUsers:   publicList(invited),
	})
}

func (s *Server) handleMyInvitedUsers(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	invited, err := s.users.InvitedUsers(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "invited users lookup failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	list := publicList(invited)
	writeList(w, list, len(list), 1, len(list))
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	top, err := s.users.Leaderboard(r.Context(), limit)
	if err != nil {
		s.logger.Error(r.Context(), "leaderboard lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	list := publicList(top)
	writeList(w, list, len(list), 1, len(list))
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error(r.Context(), "user lookup failed", "user_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeData(w, http.StatusOK, user.Public())
}

func publicList(list []*models.User) []models.PublicOut {
	out := make([]models.PublicOut, 0, len(list))
	for _, u := range list {
		out = append(out, u.Public())
	}
	return out
}
