package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/auth"
	"github.com/heartbridge/server/internal/httpx"
	"github.com/heartbridge/server/internal/models"
	"github.com/heartbridge/server/internal/services"
)

type ContactRequestHandler struct {
	DB  *gorm.DB
	Svc *services.ContactRequestService
	Log zerolog.Logger
}

func NewContactRequestHandler(db *gorm.DB, svc *services.ContactRequestService, log zerolog.Logger) *ContactRequestHandler {
	return &ContactRequestHandler{DB: db, Svc: svc, Log: log}
}

type createContactRequest struct {
	BiodataID int64  `json:"biodataId" validate:"required,gt=0"`
	Email     string `json:"email" validate:"required,email"`
	Name      string `json:"name"`
}

// Create handles POST /contact-requests: a new pending request.
func (h *ContactRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in createContactRequest
	if !decodeJSON(r, &in) {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if err := validate.Struct(in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "validation failed", violations(err))
		return
	}
	req := models.ContactRequest{
		BiodataID: in.BiodataID,
		Email:     in.Email,
		Name:      in.Name,
		Status:    models.RequestPending,
	}
	if err := h.DB.WithContext(r.Context()).Create(&req).Error; err != nil {
		h.Log.Error().Err(err).Msg("contact request create failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message":    "Contact request submitted",
		"insertedId": req.ID,
	})
}

// List handles GET /contact-requests (protected). The email filter must
// match the verified identity; asking for someone else's requests is
// forbidden.
func (h *ContactRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email != "" {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok || !strings.EqualFold(identity.Email, email) {
			httpx.Error(w, http.StatusForbidden, "forbidden access", nil)
			return
		}
	}
	dbq := h.DB.WithContext(r.Context()).Model(&models.ContactRequest{})
	if email != "" {
		dbq = dbq.Where("email = ?", email)
	}
	var requests []models.ContactRequest
	if err := dbq.Order("created_at desc").Find(&requests).Error; err != nil {
		h.Log.Error().Err(err).Msg("contact request list failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch contact requests", nil)
		return
	}
	httpx.List(w, int64(len(requests)), requests)
}

// Approve handles PATCH /contact-requests/{id}: resolve the referenced
// profile and snapshot its contact fields.
func (h *ContactRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid id", nil)
		return
	}
	req, aerr := h.Svc.Approve(r.Context(), uint(id))
	if aerr != nil {
		switch {
		case errors.Is(aerr, services.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "Request or biodata not found", nil)
		case errors.Is(aerr, services.ErrInvalidReference):
			httpx.Error(w, http.StatusBadRequest, "Invalid biodata reference", nil)
		default:
			h.Log.Error().Err(aerr).Uint64("id", id).Msg("contact request approval failed")
			httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Contact request approved",
		"modifiedCount": 1,
		"data":          req,
	})
}

// Delete handles DELETE /contact-requests/{id}.
func (h *ContactRequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid id", nil)
		return
	}
	res := h.DB.WithContext(r.Context()).Delete(&models.ContactRequest{}, uint(id))
	if res.Error != nil {
		h.Log.Error().Err(res.Error).Uint64("id", id).Msg("contact request delete failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"deletedCount": res.RowsAffected,
	})
}
