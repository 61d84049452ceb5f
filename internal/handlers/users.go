package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/httpx"
	"github.com/heartbridge/server/internal/models"
)

type UserHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

func NewUserHandler(db *gorm.DB, log zerolog.Logger) *UserHandler {
	return &UserHandler{DB: db, Log: log}
}

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// Create handles POST /users: insert the account if the email is absent,
// otherwise report the existing account without writing.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in createUserRequest
	if !decodeJSON(r, &in) {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if err := validate.Struct(in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "validation failed", violations(err))
		return
	}
	var count int64
	if err := h.DB.WithContext(r.Context()).Model(&models.UserAccount{}).
		Where("email = ?", in.Email).Count(&count).Error; err != nil {
		h.Log.Error().Err(err).Msg("user lookup failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	if count > 0 {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"message":    "user already exists",
			"insertedId": nil,
		})
		return
	}
	user := models.UserAccount{Email: in.Email, Name: in.Name, PhotoURL: in.PhotoURL, Role: "user"}
	if err := h.DB.WithContext(r.Context()).Create(&user).Error; err != nil {
		// the unique index backs up the pre-check under concurrency
		if isDuplicateKey(err) {
			httpx.JSON(w, http.StatusOK, map[string]any{
				"success":    true,
				"message":    "user already exists",
				"insertedId": nil,
			})
			return
		}
		h.Log.Error().Err(err).Msg("user create failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message":    "user created successfully",
		"insertedId": user.ID,
	})
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	var users []models.UserAccount
	if err := h.DB.WithContext(r.Context()).Order("created_at desc").Find(&users).Error; err != nil {
		h.Log.Error().Err(err).Msg("user list failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch users", nil)
		return
	}
	httpx.List(w, int64(len(users)), users)
}

// Search handles GET /users/search?q=: name or email substring match.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	dbq := h.DB.WithContext(r.Context()).Model(&models.UserAccount{})
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		dbq = dbq.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}
	var users []models.UserAccount
	if err := dbq.Find(&users).Error; err != nil {
		h.Log.Error().Err(err).Msg("user search failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to search users", nil)
		return
	}
	httpx.List(w, int64(len(users)), users)
}

// GetByEmail handles GET /users/{email}.
func (h *UserHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	if email == "" {
		httpx.Error(w, http.StatusBadRequest, "Email parameter is required", nil)
		return
	}
	var user models.UserAccount
	err := h.DB.WithContext(r.Context()).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Error(w, http.StatusNotFound, "No user found for this email", nil)
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("email", email).Msg("user fetch failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.OK(w, http.StatusOK, "", user)
}

// GetRole handles GET /users/role/{email}.
func (h *UserHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	var user models.UserAccount
	err := h.DB.WithContext(r.Context()).Select("role").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Error(w, http.StatusNotFound, "No user found for this email", nil)
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("email", email).Msg("role fetch failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]string{"role": user.Role})
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

// UpdateRole handles PATCH /users/update-role/{email}.
func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	var in updateRoleRequest
	if !decodeJSON(r, &in) {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if err := validate.Struct(in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "validation failed", violations(err))
		return
	}
	res := h.DB.WithContext(r.Context()).Model(&models.UserAccount{}).
		Where("email = ?", email).Update("role", in.Role)
	if res.Error != nil {
		h.Log.Error().Err(res.Error).Str("email", email).Msg("role update failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.Error(w, http.StatusNotFound, "No user found for this email", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "role updated successfully",
		"modifiedCount": res.RowsAffected,
	})
}
