package handlers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/models"
)

func userRouter(conn *gorm.DB) chi.Router {
	h := NewUserHandler(conn, zerolog.Nop())
	r := chi.NewRouter()
	r.Post("/users", h.Create)
	r.Get("/users", h.List)
	r.Get("/users/search", h.Search)
	r.Get("/users/role/{email}", h.GetRole)
	r.Patch("/users/update-role/{email}", h.UpdateRole)
	r.Get("/users/{email}", h.GetByEmail)
	return r
}

func TestUserCreateIfAbsent(t *testing.T) {
	conn := setupTestDB(t)
	r := userRouter(conn)

	w, body := doJSON(t, r, http.MethodPost, "/users", `{"email":"u@x.com","name":"U"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	if body["insertedId"] == nil {
		t.Fatalf("expected insertedId, got %v", body)
	}

	w, body = doJSON(t, r, http.MethodPost, "/users", `{"email":"u@x.com","name":"U2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if body["message"] != "user already exists" {
		t.Fatalf("expected duplicate message, got %v", body["message"])
	}
	var count int64
	conn.Model(&models.UserAccount{}).Count(&count)
	if count != 1 {
		t.Fatalf("duplicate wrote a record: %d", count)
	}
	var user models.UserAccount
	conn.Where("email = ?", "u@x.com").First(&user)
	if user.Name != "U" {
		t.Fatalf("duplicate mutated the record: %q", user.Name)
	}
}

func TestUserCreateValidation(t *testing.T) {
	conn := setupTestDB(t)
	r := userRouter(conn)

	w, _ := doJSON(t, r, http.MethodPost, "/users", `{"name":"NoEmail"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodPost, "/users", `{"email":"not-an-email"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad email got %d", w.Code)
	}
}

func TestUserRoleLifecycle(t *testing.T) {
	conn := setupTestDB(t)
	r := userRouter(conn)

	if _, body := doJSON(t, r, http.MethodPost, "/users", `{"email":"u@x.com"}`); body["success"] != true {
		t.Fatalf("seed user failed: %v", body)
	}

	w, body := doJSON(t, r, http.MethodGet, "/users/role/u@x.com", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	data, _ := body["data"].(map[string]any)
	if data["role"] != "user" {
		t.Fatalf("expected default role user, got %v", data["role"])
	}

	w, _ = doJSON(t, r, http.MethodPatch, "/users/update-role/u@x.com", `{"role":"admin"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	_, body = doJSON(t, r, http.MethodGet, "/users/role/u@x.com", "")
	data, _ = body["data"].(map[string]any)
	if data["role"] != "admin" {
		t.Fatalf("expected admin role, got %v", data["role"])
	}

	w, _ = doJSON(t, r, http.MethodPatch, "/users/update-role/u@x.com", `{"role":"superuser"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodPatch, "/users/update-role/ghost@x.com", `{"role":"admin"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestUserSearch(t *testing.T) {
	conn := setupTestDB(t)
	r := userRouter(conn)

	for _, u := range []models.UserAccount{
		{Email: "alice@x.com", Name: "Alice"},
		{Email: "bob@y.com", Name: "Bob"},
	} {
		acc := u
		if err := conn.Create(&acc).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	w, body := doJSON(t, r, http.MethodGet, "/users/search?q=ali", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if body["count"] != float64(1) {
		t.Fatalf("expected 1 match got %v", body["count"])
	}
}
