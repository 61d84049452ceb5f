package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/auth"
	"github.com/heartbridge/server/internal/models"
	"github.com/heartbridge/server/internal/services"
)

func contactRouter(conn *gorm.DB, identity *auth.Identity) chi.Router {
	h := NewContactRequestHandler(conn, services.NewContactRequestService(conn), zerolog.Nop())
	r := chi.NewRouter()
	if identity != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithIdentity(req.Context(), identity)))
			})
		})
	}
	r.Post("/contact-requests", h.Create)
	r.Get("/contact-requests", h.List)
	r.Patch("/contact-requests/{id}", h.Approve)
	r.Delete("/contact-requests/{id}", h.Delete)
	return r
}

func TestContactRequestCreateAndApprove(t *testing.T) {
	conn := setupTestDB(t)
	r := contactRouter(conn, nil)

	bio := models.Biodata{BiodataID: 9, Email: "owner@x.com", MobileNumber: "01500"}
	if err := conn.Create(&bio).Error; err != nil {
		t.Fatalf("seed biodata: %v", err)
	}

	w, body := doJSON(t, r, http.MethodPost, "/contact-requests", `{"biodataId":9,"email":"asker@x.com","name":"Asker"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	id := body["insertedId"].(float64)

	w, body = doJSON(t, r, http.MethodPatch, "/contact-requests/1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	data, _ := body["data"].(map[string]any)
	if data["mobileNumber"] != "01500" || data["contactEmail"] != "owner@x.com" {
		t.Fatalf("snapshot missing: %v", data)
	}
	_ = id
}

func TestContactRequestApproveMissingProfile(t *testing.T) {
	conn := setupTestDB(t)
	r := contactRouter(conn, nil)

	w, _ := doJSON(t, r, http.MethodPost, "/contact-requests", `{"biodataId":404,"email":"asker@x.com"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodPatch, "/contact-requests/1", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
	var req models.ContactRequest
	if err := conn.First(&req, 1).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if req.Status != models.RequestPending {
		t.Fatalf("approval wrote despite missing profile: %q", req.Status)
	}
}

func TestContactRequestCreateValidation(t *testing.T) {
	conn := setupTestDB(t)
	r := contactRouter(conn, nil)

	w, _ := doJSON(t, r, http.MethodPost, "/contact-requests", `{"email":"asker@x.com"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
}

func TestContactRequestListIdentityMismatch(t *testing.T) {
	conn := setupTestDB(t)
	r := contactRouter(conn, &auth.Identity{Email: "me@x.com"})

	req := httptest.NewRequest(http.MethodGet, "/contact-requests?email=other@x.com", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/contact-requests?email=me@x.com", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
}

func TestContactRequestDelete(t *testing.T) {
	conn := setupTestDB(t)
	r := contactRouter(conn, nil)

	if err := conn.Create(&models.ContactRequest{BiodataID: 1, Email: "a@x.com", Status: models.RequestPending}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	w, body := doJSON(t, r, http.MethodDelete, "/contact-requests/1", "")
	if w.Code != http.StatusOK || body["deletedCount"] != float64(1) {
		t.Fatalf("expected deletedCount 1, got %d %v", w.Code, body["deletedCount"])
	}
	w, body = doJSON(t, r, http.MethodDelete, "/contact-requests/1", "")
	if w.Code != http.StatusOK || body["deletedCount"] != float64(0) {
		t.Fatalf("expected deletedCount 0, got %d %v", w.Code, body["deletedCount"])
	}
}
