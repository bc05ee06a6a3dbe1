package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAuthorized(t *testing.T) {
	keys := NewAPIKeys("")
	keys.Add("probe", "valid-key")
	show := Authorized(keys)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if show(req) {
		t.Error("anonymous request should not be authorized")
	}

	req.Header.Set("X-API-Key", "wrong")
	if show(req) {
		t.Error("invalid key should not be authorized")
	}

	req.Header.Set("X-API-Key", "valid-key")
	if !show(req) {
		t.Error("valid key should be authorized")
	}
}

func TestAuthorized_IdentityInContext(t *testing.T) {
	show := Authorized(nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	if show(req) {
		t.Error("nil authenticator should not authorize")
	}

	req = req.WithContext(WithIdentity(req.Context(), &Identity{Subject: "upstream"}))
	if !show(req) {
		t.Error("identity installed upstream should authorize")
	}
}

func TestRequire(t *testing.T) {
	authn := NewJWT(JWTConfig{Secret: testSecret})

	var subject string
	handler := Require(authn, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := IdentityFromContext(r.Context()); id != nil {
			subject = id.Subject
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body["error"] != ErrInvalidCredentials.Error() {
		t.Errorf("error = %q", body["error"])
	}

	token, err := authn.Sign("ops", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if subject != "ops" {
		t.Errorf("subject = %q, want ops", subject)
	}
}
