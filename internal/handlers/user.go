package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Amadorfl72/mentorhub/internal/services"
	"github.com/Amadorfl72/mentorhub/internal/storage"
	"github.com/Amadorfl72/mentorhub/internal/store"
	"github.com/Amadorfl72/mentorhub/types"
	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserHandler provides HTTP handlers for user accounts.
type UserHandler struct {
	userService *services.UserService
	avatars     *storage.AvatarStore
}

// NewUserHandler constructs a handler with the provided dependencies.
// avatars may be nil when avatar caching is disabled.
func NewUserHandler(userService *services.UserService, avatars *storage.AvatarStore) *UserHandler {
	return &UserHandler{
		userService: userService,
		avatars:     avatars,
	}
}

// UserRouter registers user routes on the given router.
func UserRouter(r chi.Router, userService *services.UserService, avatars *storage.AvatarStore) {
	handler := NewUserHandler(userService, avatars)

	r.Get("/", handler.ListUsers)
	r.Post("/", handler.CreateUser)
	r.Put("/profile", handler.UpdateProfile)
	r.Route("/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetUser)
		r.Put("/", handler.UpdateUser)
		r.Delete("/", handler.DeleteUser)
		r.With(handler.requireAdmin).Patch("/admin", handler.UpdateAdminStatus)
		r.Get("/photo", handler.GetPhoto)
	})
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "username and email are required")
		return
	}

	if _, err := h.userService.GetByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusConflict, "email already exists")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "failed to check user")
		return
	}

	role := req.Role
	if role == "" {
		role = types.RoleMentee
	}

	user := types.User{
		Username:           req.Username,
		Email:              req.Email,
		Role:               role,
		Skills:             req.Skills,
		Interests:          req.Interests,
		EmailNotifications: true,
		Language:           types.LangEnglish,
	}
	if req.Language != "" {
		user.Language = req.Language
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create user")
			return
		}
		user.PasswordHash = string(hashed)
	}

	created, err := h.userService.Create(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	var req UserUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	applyUserUpdate(&user, req)

	updated, err := h.userService.Update(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.userService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateAdminStatus grants or revokes administrator privileges.
func (h *UserHandler) UpdateAdminStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Admin *bool `json:"admin"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Admin == nil {
		writeError(w, http.StatusBadRequest, "Admin status not provided")
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	user.Admin = *req.Admin
	updated, err := h.userService.Update(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// UpdateProfile lets the authenticated user update their own account.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	var req UserUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	applyUserUpdate(&user, req)

	updated, err := h.userService.Update(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, ProfileResponse{
		Message: "Profile updated successfully",
		User:    updated,
	})
}

// GetPhoto serves the cached avatar from object storage, falling back to
// a redirect to the original photo URL when no cached copy exists.
func (h *UserHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}

	if h.avatars != nil && user.AvatarKey != "" {
		reader, err := h.avatars.Open(r.Context(), user.AvatarKey)
		if err == nil {
			defer reader.Close()
			data, err := io.ReadAll(reader)
			if err == nil {
				w.Header().Set("Content-Type", http.DetectContentType(data))
				w.Header().Set("Cache-Control", "public, max-age=86400")
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write(data)
				return
			}
		}
	}

	if user.PhotoURL != "" {
		http.Redirect(w, r, user.PhotoURL, http.StatusFound)
		return
	}

	writeError(w, http.StatusNotFound, "photo not found")
}

// UserCreateRequest is the create payload. Role defaults to "mentee".
type UserCreateRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Skills    string `json:"skills"`
	Interests string `json:"interests"`
	Language  string `json:"language"`
}

// UserUpdateRequest carries a partial account update. Nil fields are
// left untouched.
type UserUpdateRequest struct {
	Username           *string `json:"username"`
	Name               *string `json:"name"`
	Email              *string `json:"email"`
	Role               *string `json:"role"`
	Skills             *string `json:"skills"`
	Interests          *string `json:"interests"`
	PhotoURL           *string `json:"photoUrl"`
	EmailNotifications *bool   `json:"email_notifications"`
	Language           *string `json:"language"`
}

// ProfileResponse is the profile update payload.
type ProfileResponse struct {
	Message string     `json:"message"`
	User    types.User `json:"user"`
}

func applyUserUpdate(user *types.User, req UserUpdateRequest) {
	if req.Username != nil {
		user.Username = *req.Username
	}
	// The frontend sends the display name as "name".
	if req.Name != nil {
		user.Username = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Skills != nil {
		user.Skills = *req.Skills
	}
	if req.Interests != nil {
		user.Interests = *req.Interests
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}
	if req.EmailNotifications != nil {
		user.EmailNotifications = *req.EmailNotifications
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
}

func parseUserID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid user id")
	}
	return id, nil
}

func (h *UserHandler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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

		if !user.Admin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
