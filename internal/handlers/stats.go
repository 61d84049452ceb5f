package handlers

import (
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/httpx"
	"github.com/heartbridge/server/internal/models"
)

type StatsHandler struct {
	DB  *gorm.DB
	Log zerolog.Logger
}

func NewStatsHandler(db *gorm.DB, log zerolog.Logger) *StatsHandler {
	return &StatsHandler{DB: db, Log: log}
}

type biodataStats struct {
	Total     int64 `json:"total"`
	Male      int64 `json:"male"`
	Female    int64 `json:"female"`
	Premium   int64 `json:"premium"`
	Marriages int64 `json:"marriages"`
}

func (h *StatsHandler) counts(r *http.Request) (biodataStats, error) {
	db := h.DB.WithContext(r.Context())
	var s biodataStats
	if err := db.Model(&models.Biodata{}).Count(&s.Total).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.Biodata{}).Where("biodata_type = ?", "Male").Count(&s.Male).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.Biodata{}).Where("biodata_type = ?", "Female").Count(&s.Female).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.Biodata{}).
		Where("is_premium = ? AND premium_status = ?", true, models.PremiumAccepted).
		Count(&s.Premium).Error; err != nil {
		return s, err
	}
	if err := db.Model(&models.SuccessStory{}).Count(&s.Marriages).Error; err != nil {
		return s, err
	}
	return s, nil
}

// Stats handles GET /biodata-stats: the dashboard counters.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	s, err := h.counts(r)
	if err != nil {
		h.Log.Error().Err(err).Msg("biodata stats failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to compute stats", nil)
		return
	}
	httpx.OK(w, http.StatusOK, "", s)
}

type divisionCount struct {
	Division string `json:"division"`
	Total    int64  `json:"total"`
}

// Insights handles GET /api/biodata-insights: the counters plus a
// per-division breakdown.
func (h *StatsHandler) Insights(w http.ResponseWriter, r *http.Request) {
	s, err := h.counts(r)
	if err != nil {
		h.Log.Error().Err(err).Msg("biodata insights failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to compute insights", nil)
		return
	}
	var divisions []divisionCount
	err = h.DB.WithContext(r.Context()).Model(&models.Biodata{}).
		Select("permanent_division as division, count(*) as total").
		Group("permanent_division").
		Order("total desc").
		Scan(&divisions).Error
	if err != nil {
		h.Log.Error().Err(err).Msg("biodata insights failed")
		httpx.Error(w, http.StatusInternalServerError, "Failed to compute insights", nil)
		return
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{
		"stats":     s,
		"divisions": divisions,
	})
}
