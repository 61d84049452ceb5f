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

type BiodataHandler struct {
	DB  *gorm.DB
	Svc *services.BiodataService
	Log zerolog.Logger
}

func NewBiodataHandler(db *gorm.DB, svc *services.BiodataService, log zerolog.Logger) *BiodataHandler {
	return &BiodataHandler{DB: db, Svc: svc, Log: log}
}

// Upsert handles POST /biodatas: update-by-email or create with a new
// sequence id.
func (h *BiodataHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if !decodeJSON(r, &payload) {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	res, err := h.Svc.Upsert(r.Context(), payload)
	if err != nil {
		if errors.Is(err, services.ErrMissingEmail) {
			httpx.Error(w, http.StatusBadRequest, "Email is required", nil)
			return
		}
		h.Log.Error().Err(err).Msg("biodata upsert failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	if res.Created {
		httpx.JSON(w, http.StatusCreated, map[string]any{
			"success":    true,
			"message":    "Biodata created successfully!",
			"insertedId": res.InsertedID,
			"biodataId":  res.BiodataID,
		})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Biodata updated successfully!",
		"modifiedCount": res.ModifiedCount,
	})
}

// List handles GET /biodatas: all profiles ascending by sequence id, with
// optional type/division/age filters.
func (h *BiodataHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dbq := h.DB.WithContext(r.Context()).Model(&models.Biodata{})
	if t := strings.TrimSpace(q.Get("biodataType")); t != "" {
		dbq = dbq.Where("biodata_type = ?", t)
	}
	if d := strings.TrimSpace(q.Get("division")); d != "" {
		dbq = dbq.Where("permanent_division = ?", d)
	}
	if v := q.Get("minAge"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dbq = dbq.Where("age >= ?", n)
		}
	}
	if v := q.Get("maxAge"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			dbq = dbq.Where("age <= ?", n)
		}
	}
	var biodatas []models.Biodata
	if err := dbq.Order("biodata_id asc").Find(&biodatas).Error; err != nil {
		h.Log.Error().Err(err).Msg("biodata list failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch biodatas", nil)
		return
	}
	httpx.List(w, int64(len(biodatas)), biodatas)
}

// GetByEmail handles GET /biodata/{email}.
func (h *BiodataHandler) GetByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	if email == "" {
		httpx.Error(w, http.StatusBadRequest, "Email parameter is required", nil)
		return
	}
	var bio models.Biodata
	err := h.DB.WithContext(r.Context()).Where("email = ?", email).First(&bio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Error(w, http.StatusNotFound, "No biodata found for this email", nil)
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Str("email", email).Msg("biodata fetch failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.OK(w, http.StatusOK, "", bio)
}

// GetByID handles GET /biodata/by-id/{biodataId}.
func (h *BiodataHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "biodataId"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid biodata id", nil)
		return
	}
	var bio models.Biodata
	err = h.DB.WithContext(r.Context()).Where("biodata_id = ?", id).First(&bio).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httpx.Error(w, http.StatusNotFound, "No biodata found for this id", nil)
		return
	}
	if err != nil {
		h.Log.Error().Err(err).Int64("biodataId", id).Msg("biodata fetch failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.OK(w, http.StatusOK, "", bio)
}

// UpdateByEmail handles PUT /biodata/{email}: full-field update.
func (h *BiodataHandler) UpdateByEmail(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(chi.URLParam(r, "email"))
	var payload map[string]any
	if !decodeJSON(r, &payload) {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	modified, err := h.Svc.UpdateByEmail(r.Context(), email, payload)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingEmail):
			httpx.Error(w, http.StatusBadRequest, "Email parameter is required", nil)
		case errors.Is(err, services.ErrNotFound):
			httpx.Error(w, http.StatusNotFound, "No biodata found for this email", nil)
		default:
			h.Log.Error().Err(err).Str("email", email).Msg("biodata update failed")
			httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		}
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Biodata updated successfully!",
		"modifiedCount": modified,
	})
}

// RequestPremium handles PATCH /biodata/request-premium/{id}: the owner
// marks their own profile for premium review.
func (h *BiodataHandler) RequestPremium(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid id", nil)
		return
	}
	var bio models.Biodata
	ferr := h.DB.WithContext(r.Context()).First(&bio, uint(id)).Error
	if errors.Is(ferr, gorm.ErrRecordNotFound) {
		httpx.Error(w, http.StatusNotFound, "No biodata found for this id", nil)
		return
	}
	if ferr != nil {
		h.Log.Error().Err(ferr).Uint64("id", id).Msg("biodata fetch failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	if identity, ok := auth.IdentityFromContext(r.Context()); !ok || identity.Email != bio.Email {
		httpx.Error(w, http.StatusForbidden, "forbidden access", nil)
		return
	}
	if bio.IsPremium && bio.PremiumStatus == models.PremiumAccepted {
		// already premium; re-requesting must not split the premium pair
		httpx.OK(w, http.StatusOK, "Biodata is already premium", nil)
		return
	}
	res := h.DB.WithContext(r.Context()).Model(&bio).Update("premium_status", models.PremiumRequested)
	if res.Error != nil {
		h.Log.Error().Err(res.Error).Uint64("id", id).Msg("premium request failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Premium request submitted",
		"modifiedCount": res.RowsAffected,
	})
}

// MakePremium handles PATCH /biodata/{id}/make-premium: the admin approval.
// The id is tried as the store primary key first, then as the public
// sequence id. Both premium fields are written together so they can never
// disagree.
func (h *BiodataHandler) MakePremium(w http.ResponseWriter, r *http.Request) {
	// routed as /biodata/{email}/make-premium; the segment carries an id
	raw := chi.URLParam(r, "email")
	ctx := r.Context()

	var bio models.Biodata
	found := false
	if pk, err := strconv.ParseUint(raw, 10, 64); err == nil && pk > 0 {
		if err := h.DB.WithContext(ctx).First(&bio, uint(pk)).Error; err == nil {
			found = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.Log.Error().Err(err).Str("id", raw).Msg("biodata fetch failed")
			httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
			return
		}
	}
	if !found {
		seq, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || seq <= 0 {
			httpx.Error(w, http.StatusBadRequest, "Invalid id", nil)
			return
		}
		ferr := h.DB.WithContext(ctx).Where("biodata_id = ?", seq).First(&bio).Error
		if errors.Is(ferr, gorm.ErrRecordNotFound) {
			httpx.Error(w, http.StatusNotFound, "No biodata found for this id", nil)
			return
		}
		if ferr != nil {
			h.Log.Error().Err(ferr).Str("id", raw).Msg("biodata fetch failed")
			httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
			return
		}
	}

	res := h.DB.WithContext(ctx).Model(&bio).Updates(map[string]any{
		"is_premium":     true,
		"premium_status": models.PremiumAccepted,
	})
	if res.Error != nil {
		h.Log.Error().Err(res.Error).Str("id", raw).Msg("make premium failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "Biodata marked premium",
		"modifiedCount": res.RowsAffected,
	})
}

// PremiumMembers handles GET /premium-members: only profiles whose premium
// pair agrees, paged to 6, sortable by age.
func (h *BiodataHandler) PremiumMembers(w http.ResponseWriter, r *http.Request) {
	order := "age asc"
	if strings.EqualFold(r.URL.Query().Get("sort"), "desc") {
		order = "age desc"
	}
	var members []models.Biodata
	err := h.DB.WithContext(r.Context()).
		Where("is_premium = ? AND premium_status = ?", true, models.PremiumAccepted).
		Order(order).
		Limit(6).
		Find(&members).Error
	if err != nil {
		h.Log.Error().Err(err).Msg("premium members list failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch premium members", nil)
		return
	}
	httpx.List(w, int64(len(members)), members)
}
