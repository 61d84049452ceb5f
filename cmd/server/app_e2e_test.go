package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/heartbridge/server/internal/config"
	"github.com/heartbridge/server/internal/db"
)

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	for _, m := range db.AllModels() {
		if err := conn.AutoMigrate(m); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	// Empty AuthCredentials selects the development token secret.
	handler, err := NewApp(conn, config.Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	return handler
}

func devToken(t *testing.T, email string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   email,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("devauthsecret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func call(t *testing.T, h http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var decoded map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func TestEndToEndBiodataLifecycle(t *testing.T) {
	app := newTestApp(t)
	tokenA := devToken(t, "a@x.com")
	tokenB := devToken(t, "b@x.com")

	// Anonymous profile submission is rejected before touching the store.
	w, _ := call(t, app, http.MethodPost, "/biodatas", "", `{"email":"a@x.com"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}

	w, body := call(t, app, http.MethodPost, "/biodatas", tokenA, `{"email":"a@x.com","name":"A"}`)
	if w.Code != http.StatusCreated || body["biodataId"] != float64(1) {
		t.Fatalf("expected biodataId 1, got %d %v", w.Code, body)
	}
	w, body = call(t, app, http.MethodPost, "/biodatas", tokenB, `{"email":"b@x.com"}`)
	if w.Code != http.StatusCreated || body["biodataId"] != float64(2) {
		t.Fatalf("expected biodataId 2, got %d %v", w.Code, body)
	}
	w, body = call(t, app, http.MethodPost, "/biodatas", tokenA, `{"email":"a@x.com","name":"A2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on update got %d", w.Code)
	}
	if _, hasID := body["biodataId"]; hasID {
		t.Fatalf("update reported a new id: %v", body)
	}

	w, body = call(t, app, http.MethodGet, "/biodata/a@x.com", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	data, _ := body["data"].(map[string]any)
	if data["name"] != "A2" {
		t.Fatalf("expected name A2, got %v", data["name"])
	}
	if data["biodataId"] != float64(1) {
		t.Fatalf("sequence id drifted: %v", data["biodataId"])
	}
}

func TestEndToEndFavouritesAndRequests(t *testing.T) {
	app := newTestApp(t)
	tokenA := devToken(t, "a@x.com")

	if w, _ := call(t, app, http.MethodPost, "/biodatas", tokenA,
		`{"email":"owner@x.com","mobileNumber":"0170"}`); w.Code != http.StatusCreated {
		t.Fatalf("seed biodata failed: %d", w.Code)
	}

	// duplicate favourite is a conflict
	fav := `{"email":"a@x.com","biodataId":1,"name":"O"}`
	if w, _ := call(t, app, http.MethodPost, "/favourites", "", fav); w.Code != http.StatusCreated {
		t.Fatalf("favourite create failed: %d", w.Code)
	}
	if w, _ := call(t, app, http.MethodPost, "/favourites", "", fav); w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", w.Code)
	}
	// deleting an absent favourite reports zero, not an error
	w, body := call(t, app, http.MethodDelete, "/favourites/77", "", "")
	if w.Code != http.StatusOK || body["deletedCount"] != float64(0) {
		t.Fatalf("expected deletedCount 0, got %d %v", w.Code, body)
	}

	// contact request approval snapshots the profile's contact fields
	if w, _ := call(t, app, http.MethodPost, "/contact-requests", "",
		`{"biodataId":1,"email":"a@x.com"}`); w.Code != http.StatusCreated {
		t.Fatalf("contact request create failed: %d", w.Code)
	}
	w, body = call(t, app, http.MethodPatch, "/contact-requests/1", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("approval failed: %d %s", w.Code, w.Body.String())
	}
	data, _ := body["data"].(map[string]any)
	if data["mobileNumber"] != "0170" {
		t.Fatalf("snapshot missing: %v", data)
	}

	// listing someone else's requests with your own token is forbidden
	w, _ = call(t, app, http.MethodGet, "/contact-requests?email=other@x.com", tokenA, "")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", w.Code)
	}
}
