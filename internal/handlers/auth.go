package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Amadorfl72/mentorhub/config"
	"github.com/Amadorfl72/mentorhub/internal/services"
	"github.com/Amadorfl72/mentorhub/internal/storage"
	"github.com/Amadorfl72/mentorhub/internal/store"
	"github.com/Amadorfl72/mentorhub/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

const defaultTokenTTL = 24 * time.Hour

// AuthHandler provides login, Google SSO and token endpoints.
type AuthHandler struct {
	userService *services.UserService
	avatars     *storage.AvatarStore
	oauth       *oauth2.Config
	clientID    string
	secret      []byte
	tokenTTL    time.Duration
	log         *zap.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
// avatars may be nil when avatar caching is disabled.
func NewAuthHandler(
	userService *services.UserService,
	avatars *storage.AvatarStore,
	googleCfg config.GoogleConfig,
	jwtSecret string,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		avatars:     avatars,
		oauth: &oauth2.Config{
			ClientID:     googleCfg.ClientID,
			ClientSecret: googleCfg.ClientSecret,
			RedirectURL:  googleCfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		clientID: googleCfg.ClientID,
		secret:   []byte(jwtSecret),
		tokenTTL: defaultTokenTTL,
		log:      log,
	}
}

// AuthRouter registers auth routes on the given router.
func AuthRouter(
	r chi.Router,
	userService *services.UserService,
	avatars *storage.AvatarStore,
	googleCfg config.GoogleConfig,
	jwtSecret string,
	log *zap.Logger,
) {
	handler := NewAuthHandler(userService, avatars, googleCfg, jwtSecret, log)

	r.Post("/login", handler.Login)
	r.Get("/google/callback", handler.GoogleCallback)
	r.Post("/verify-token", handler.VerifyToken)
	r.With(handler.RequireAuth).Get("/me", handler.Me)
}

// RequireAuth enforces JWT authentication and injects the subject into context.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return requireAuth(h.secret)(next)
}

// RequireAuth constructs auth middleware for other routers.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return requireAuth([]byte(jwtSecret))
}

func requireAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			subject, err := parseTokenSubject(tokenString, secret)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), contextSubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Login verifies email and password credentials and returns a JWT.
// Accounts created through Google SSO alone have no password and must
// use the SSO flow.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing credentials")
		return
	}

	user, err := h.userService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to authenticate")
		return
	}

	if user.PasswordHash == "" {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := issueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// GoogleCallback exchanges the OAuth authorization code, validates the
// Google ID token and signs the user in, creating the account on first
// login.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "No authorization code provided")
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to exchange code for token")
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		writeError(w, http.StatusBadRequest, "Failed to get user info")
		return
	}

	payload, err := idtoken.Validate(r.Context(), rawIDToken, h.clientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to get user info")
		return
	}

	info := googleProfile(payload)
	if info.Email == "" {
		writeError(w, http.StatusBadRequest, "No email found in user info")
		return
	}

	user, err := h.upsertGoogleUser(r.Context(), info)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}

	appToken, err := issueToken(user.ID, h.secret, h.tokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create token")
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: appToken, User: user})
}

// VerifyToken reports whether a previously issued JWT is still valid.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenRequest
	if err := decodeJSON(r, &req); err != nil || strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusUnauthorized, "No token provided")
		return
	}

	if _, err := parseTokenSubject(req.Token, h.secret); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	writeJSON(w, http.StatusOK, VerifyTokenResponse{Valid: true})
}

// Me returns the current authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type googleUserInfo struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

func googleProfile(payload *idtoken.Payload) googleUserInfo {
	info := googleUserInfo{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		info.Email = strings.TrimSpace(email)
	}
	if name, ok := payload.Claims["name"].(string); ok {
		info.Name = strings.TrimSpace(name)
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		info.Picture = strings.TrimSpace(picture)
	}
	return info
}

func (h *AuthHandler) upsertGoogleUser(ctx context.Context, info googleUserInfo) (types.User, error) {
	username := info.Name
	if username == "" {
		username = strings.SplitN(info.Email, "@", 2)[0]
	}

	user, err := h.userService.GetByEmail(ctx, info.Email)
	switch {
	case err == nil:
		user.Username = username
		user.GoogleID = info.Subject
		user.PhotoURL = info.Picture
		h.cacheAvatar(ctx, &user)
		return h.userService.Update(ctx, user)
	case errors.Is(err, store.ErrNotFound):
		user = types.User{
			Username: username,
			Email:    info.Email,
			GoogleID: info.Subject,
			PhotoURL: info.Picture,
			Role:     types.RolePending,
		}
		h.cacheAvatar(ctx, &user)
		return h.userService.Create(ctx, user)
	default:
		return types.User{}, err
	}
}

// cacheAvatar copies the Google profile photo into object storage.
// Best-effort: the login succeeds with the hot-linked URL when caching
// is disabled or fails.
func (h *AuthHandler) cacheAvatar(ctx context.Context, user *types.User) {
	if h.avatars == nil || user.PhotoURL == "" || user.AvatarKey != "" {
		return
	}
	key, err := h.avatars.CacheFromURL(ctx, user.PhotoURL)
	if err != nil {
		h.log.Warn("failed to cache avatar",
			zap.String("email", user.Email),
			zap.Error(err))
		return
	}
	user.AvatarKey = key
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyTokenRequest struct {
	Token string `json:"token"`
}

type VerifyTokenResponse struct {
	Valid bool `json:"valid"`
}

type AuthResponse struct {
	Token string     `json:"token"`
	User  types.User `json:"user"`
}

func issueToken(userID int, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSubject(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

func bearerToken(r *http.Request) (string, error) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if auth == "" {
		return "", errors.New("missing authorization")
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("invalid authorization")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("invalid authorization")
	}
	return token, nil
}
