package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/heartbridge/server/internal/models"
)

func TestSuccessStoryCreateAndLatestSix(t *testing.T) {
	conn := setupTestDB(t)
	h := NewSuccessStoryHandler(conn, zerolog.Nop())
	r := chi.NewRouter()
	r.Post("/api/success-stories", h.Create)
	r.Get("/success-stories", h.List)

	w, _ := doJSON(t, r, http.MethodPost, "/api/success-stories",
		`{"selfBiodataId":1,"partnerBiodataId":2,"review":"We met here."}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	w, _ = doJSON(t, r, http.MethodPost, "/api/success-stories", `{"selfBiodataId":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}

	// Eight more stories with increasing timestamps; the listing caps at the
	// latest six.
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 8; i++ {
		story := models.SuccessStory{
			SelfBiodataID:    int64(i + 10),
			PartnerBiodataID: int64(i + 20),
			Review:           fmt.Sprintf("story %d", i),
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
		}
		if err := conn.Create(&story).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	w, body := doJSON(t, r, http.MethodGet, "/success-stories", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if body["count"] != float64(6) {
		t.Fatalf("expected latest 6, got %v", body["count"])
	}
}
