package handlers

import (
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/httpx"
	"github.com/heartbridge/server/internal/models"
)

type SuccessStoryHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

func NewSuccessStoryHandler(db *gorm.DB, log zerolog.Logger) *SuccessStoryHandler {
	return &SuccessStoryHandler{DB: db, Log: log}
}

type createSuccessStoryRequest struct {
	SelfBiodataID    int64  `json:"selfBiodataId" validate:"required,gt=0"`
	PartnerBiodataID int64  `json:"partnerBiodataId" validate:"required,gt=0"`
	Review           string `json:"review" validate:"required"`
	CoupleImage      string `json:"coupleImage"`
	MarriageDate     string `json:"marriageDate"`
	Email            string `json:"email"`
}

// Create handles POST /api/success-stories. The referenced biodata ids are
// stored as given, unchecked.
func (h *SuccessStoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in createSuccessStoryRequest
	if !decodeJSON(r, &in) {
		httpx.Error(w, http.StatusBadRequest, "invalid JSON body", nil)
		return
	}
	if err := validate.Struct(in); err != nil {
		httpx.Error(w, http.StatusBadRequest, "validation failed", violations(err))
		return
	}
	story := models.SuccessStory{
		SelfBiodataID:    in.SelfBiodataID,
		PartnerBiodataID: in.PartnerBiodataID,
		Review:           in.Review,
		CoupleImage:      in.CoupleImage,
		MarriageDate:     in.MarriageDate,
		Email:            in.Email,
	}
	if err := h.DB.WithContext(r.Context()).Create(&story).Error; err != nil {
		h.Log.Error().Err(err).Msg("success story create failed")
		httpx.Error(w, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success":    true,
		"message":    "Success story submitted",
		"insertedId": story.ID,
	})
}

// List handles GET /success-stories: the latest six, newest first.
func (h *SuccessStoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var stories []models.SuccessStory
	err := h.DB.WithContext(r.Context()).
		Order("created_at desc").
		Limit(6).
		Find(&stories).Error
	if err != nil {
		h.Log.Error().Err(err).Msg("success story list failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to fetch success stories", nil)
		return
	}
	httpx.List(w, int64(len(stories)), stories)
}
