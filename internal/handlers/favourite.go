package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/httpx"
	"github.com/heartbridge/server/internal/models"
)

type FavouriteHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

func NewFavouriteHandler(db *gorm.DB, log zerolog.Logger) *FavouriteHandler {
	return &FavouriteHandler{DB: db, Log: log}
}

type createFavouriteRequest struct {
	Email             string `json:"email" validate:"required,email"`
	BiodataID         int64  `json:"biodataId" validate:"required,gt=0"`
	Name              string `json:"name"`
	PermanentDivision string `json:"permanentDivision"`
	Occupation        string `json:"occupation"`
}

// Create handles POST /favourites. A duplicate (email, biodataId) pair is a
// conflict, never a merge.
func (h *FavouriteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in createFavouriteRequest
	if !decodeJSON(r, &in) {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if err := validate.Struct(in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "validation failed", violations(err))
		return
	}
	var count int64
	if err := h.DB.WithContext(r.Context()).Model(&models.Favourite{}).
		Where("email = ? AND biodata_id = ?", in.Email, in.BiodataID).Count(&count).Error; err != nil {
		h.Log.Error().Err(err).Msg("favourite lookup failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	if count > 0 {
		httpx.Error(w, http.StatusConflict, "Favourite already exists", nil)
		return
	}
	fav := models.Favourite{
		Email:             in.Email,
		BiodataID:         in.BiodataID,
		Name:              in.Name,
		PermanentDivision: in.PermanentDivision,
		Occupation:        in.Occupation,
	}
	if err := h.DB.WithContext(r.Context()).Create(&fav).Error; err != nil {
		// the unique index backs up the pre-check under concurrency
		if isDuplicateKey(err) {
			httpx.Error(w, http.StatusConflict, "Favourite already exists", nil)
			return
		}
		h.Log.Error().Err(err).Msg("favourite create failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message":    "Added to favourites",
		"insertedId": fav.ID,
	})
}

// List handles GET /favourites, optionally filtered by owner email.
func (h *FavouriteHandler) List(w http.ResponseWriter, r *http.Request) {
	dbq := h.DB.WithContext(r.Context()).Model(&models.Favourite{})
	if email := strings.TrimSpace(r.URL.Query().Get("email")); email != "" {
		dbq = dbq.Where("email = ?", email)
	}
	var favourites []models.Favourite
	if err := dbq.Order("created_at desc").Find(&favourites).Error; err != nil {
		h.Log.Error().Err(err).Msg("favourite list failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch favourites", nil)
		return
	}
	httpx.List(w, int64(len(favourites)), favourites)
}

// Delete handles DELETE /favourites/{id}. A missing id is not an error:
// deletedCount is simply zero.
func (h *FavouriteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		httpx.Error(w, http.StatusBadRequest, "Invalid id", nil)
		return
	}
	res := h.DB.WithContext(r.Context()).Delete(&models.Favourite{}, uint(id))
	if res.Error != nil {
		h.Log.Error().Err(res.Error).Uint64("id", id).Msg("favourite delete failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"deletedCount": res.RowsAffected,
	})
}
