package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"authapi/internal/auth"
	"authapi/internal/config"
	"authapi/internal/metrics"
	"authapi/internal/middleware"
	"authapi/internal/models"
	"authapi/internal/repository"
	"authapi/internal/services"
)

// Response messages returned to clients.
const (
	MsgRegistered       = "Kayıt başarılı!"
	MsgRegisterFailed   = "Kayıt başarısız: "
	MsgUserNotFound     = "Kullanıcı bulunamadı!"
	MsgWrongPassword    = "Yanlış şifre!"
	MsgLoggedIn         = "Giriş başarılı"
	MsgServerError      = "Sunucu hatası"
	MsgInvalidRequest   = "Geçersiz istek: "
	MsgMailFailed       = "Mail gönderme hatası"
	MsgResetMailSent    = "Şifre sıfırlama maili gönderildi"
	ResetMailSubject    = "Şifre Sıfırlama İsteği"
	resetMailBodyFormat = "Merhaba %s, şifrenizi sıfırlamak için şu linke tıklayın: %s%s"
)

type AuthHandler struct {
	users   repository.UserRepository
	hasher  auth.PasswordHasher
	tokens  *auth.TokenIssuer
	mailer  services.EmailSender
	cfg     *config.Config
	v       *validator.Validate
	metrics *metrics.Registry
	log     zerolog.Logger
}

func NewAuthHandler(users repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenIssuer, mailer services.EmailSender, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
		v:      validator.New(),
		log:    log.Logger,
	}
}

func (h *AuthHandler) SetMetrics(m *metrics.Registry) {
	h.metrics = m
}

func (h *AuthHandler) SetLogger(l zerolog.Logger) {
	h.log = l
}

// @Tags Auth
// @Summary Register a new user
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Registration request"
// @Success 201 {object} models.MessageResponse
// @Failure 400 {object} models.MessageResponse
// @Router /api/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "register"

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, op, http.StatusBadRequest, MsgRegisterFailed+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		h.writeMessage(w, op, http.StatusBadRequest, MsgRegisterFailed+err.Error())
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.log.Error().Err(err).Msg("password hashing failed")
		h.writeMessage(w, op, http.StatusBadRequest, MsgRegisterFailed+err.Error())
		return
	}

	u := &models.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.users.Create(r.Context(), u); err != nil {
		if !errors.Is(err, repository.ErrEmailTaken) {
			h.log.Error().Err(err).Msg("user insert failed")
		}
		h.writeMessage(w, op, http.StatusBadRequest, MsgRegisterFailed+err.Error())
		return
	}

	h.writeMessage(w, op, http.StatusCreated, MsgRegistered)
}

// @Tags Auth
// @Summary Log in and receive a session token
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "login"

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, op, http.StatusBadRequest, MsgInvalidRequest+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		h.writeMessage(w, op, http.StatusBadRequest, MsgInvalidRequest+err.Error())
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.writeMessage(w, op, http.StatusBadRequest, MsgUserNotFound)
			return
		}
		h.log.Error().Err(err).Msg("user lookup failed")
		h.writeMessage(w, op, http.StatusInternalServerError, MsgServerError+": "+err.Error())
		return
	}

	if err := h.hasher.Verify(u.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredential) {
			h.writeMessage(w, op, http.StatusBadRequest, MsgWrongPassword)
			return
		}
		h.log.Error().Err(err).Str("user_id", u.ID).Msg("password verification failed")
		h.writeMessage(w, op, http.StatusInternalServerError, MsgServerError+": "+err.Error())
		return
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", u.ID).Msg("token signing failed")
		h.writeMessage(w, op, http.StatusInternalServerError, MsgServerError+": "+err.Error())
		return
	}

	h.writeJSON(w, op, http.StatusOK, models.LoginResponse{Message: MsgLoggedIn, Token: token})
}

// @Tags Auth
// @Summary Send a password reset email
// @Accept json
// @Produce json
// @Param body body models.ForgotPasswordRequest true "Forgot password request"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /api/forgot_password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	const op = "forgot_password"

	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeMessage(w, op, http.StatusBadRequest, MsgInvalidRequest+err.Error())
		return
	}
	if err := h.v.Struct(req); err != nil {
		h.writeMessage(w, op, http.StatusBadRequest, MsgInvalidRequest+err.Error())
		return
	}

	u, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.writeMessage(w, op, http.StatusBadRequest, MsgUserNotFound)
			return
		}
		h.log.Error().Err(err).Msg("user lookup failed")
		h.writeMessage(w, op, http.StatusInternalServerError, MsgServerError)
		return
	}

	// The link carries the raw user ID; it is neither signed nor time limited.
	msg := services.Message{
		To:      u.Email,
		Subject: ResetMailSubject,
		Body:    fmt.Sprintf(resetMailBodyFormat, u.FirstName, h.cfg.ResetURLBase, u.ID),
	}

	if err := <-services.Dispatch(r.Context(), h.mailer, msg); err != nil {
		h.log.Error().Err(err).Str("user_id", u.ID).Msg("reset mail delivery failed")
		h.writeMessage(w, op, http.StatusInternalServerError, MsgMailFailed)
		return
	}

	h.writeMessage(w, op, http.StatusOK, MsgResetMailSent)
}

// @Tags Auth
// @Summary Current user
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} models.MessageResponse
// @Failure 404 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /api/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "me"

	id, ok := middleware.UserID(r.Context())
	if !ok {
		h.writeMessage(w, op, http.StatusUnauthorized, "Invalid token")
		return
	}

	u, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			h.writeMessage(w, op, http.StatusNotFound, MsgUserNotFound)
			return
		}
		h.log.Error().Err(err).Str("user_id", id).Msg("user lookup failed")
		h.writeMessage(w, op, http.StatusInternalServerError, MsgServerError)
		return
	}

	h.writeJSON(w, op, http.StatusOK, u)
}

func (h *AuthHandler) writeMessage(w http.ResponseWriter, op string, status int, message string) {
	h.metrics.Observe(op, status)
	writeJSONMessage(w, status, message)
}

func (h *AuthHandler) writeJSON(w http.ResponseWriter, op string, status int, body any) {
	h.metrics.Observe(op, status)
	writeJSON(w, status, body)
}
