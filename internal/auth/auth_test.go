package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/surajktr/scoresight/internal/rbac"
)

func TestIssueParseRoundTrip(t *testing.T) {
	a := NewAuthService("test-secret")
	tok, err := a.IssueJWT("u1", "admin")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := a.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Sub != "u1" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tok, _ := NewAuthService("one").IssueJWT("u1", "user")
	if _, err := NewAuthService("two").Parse(tok); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("test-secret")
	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	// No header.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("missing bearer: status = %d", rr.Code)
	}

	// Valid token.
	tok, _ := a.IssueJWT("u1", "user")
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != 200 || gotSub != "u1" || gotRole != "user" {
		t.Fatalf("status = %d, sub = %q, role = %q", rr.Code, gotSub, gotRole)
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a := NewAuthService("test-secret")
	h := LoginHandler(a, AdminCredentials{Username: "admin", PassHash: string(hash)})

	rr := httptest.NewRecorder()
	h(rr, httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"admin","password":"letmein"}`)))
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	var out map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	claims, err := a.Parse(out["access_token"])
	if err != nil || claims.Role != "admin" {
		t.Fatalf("token claims: %+v, %v", claims, err)
	}

	rr = httptest.NewRecorder()
	h(rr, httptest.NewRequest("POST", "/auth/login", strings.NewReader(`{"username":"admin","password":"wrong"}`)))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: status = %d", rr.Code)
	}
}

func TestGuestLoginHandler(t *testing.T) {
	a := NewAuthService("test-secret")
	rr := httptest.NewRecorder()
	GuestLoginHandler(a)(rr, httptest.NewRequest("POST", "/auth/guest", nil))
	if rr.Code != 200 {
		t.Fatalf("status = %d", rr.Code)
	}
	var out struct {
		AccessToken string `json:"access_token"`
		Username    string `json:"username"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	claims, err := a.Parse(out.AccessToken)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != "user" || !strings.HasPrefix(claims.Sub, "guest|") {
		t.Fatalf("claims = %+v", claims)
	}
}
