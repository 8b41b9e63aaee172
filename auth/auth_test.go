package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func TestIssueAndVerify(t *testing.T) {
	token, err := NewIssuer(testSecret, time.Hour).Issue("user-1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	id, err := NewVerifier(testSecret).Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if id != "user-1" {
		t.Fatalf("id = %q; want user-1", id)
	}
}

func TestVerifyFailures(t *testing.T) {
	expiredIssuer := NewIssuer(testSecret, time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}

	otherSecret, err := NewIssuer("other-secret", time.Hour).Issue("user-1")
	if err != nil {
		t.Fatal(err)
	}

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"id":  "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"id": "user-1"}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrNoToken},
		{"garbage", "not-a-jwt", ErrInvalidToken},
		{"expired", expired, ErrTokenExpired},
		{"wrong secret", otherSecret, ErrInvalidToken},
		{"missing id", noID, ErrInvalidToken},
		{"other algorithm", hs512, ErrInvalidToken},
		{"missing exp", noExp, ErrInvalidToken},
	}
	v := NewVerifier(testSecret)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := v.Verify(c.token)
			if !errors.Is(err, c.want) {
				t.Fatalf("Verify err = %v; want %v", err, c.want)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "hunter22" {
		t.Fatalf("hash must not equal the password")
	}
	if !CheckPassword(hash, "hunter22") {
		t.Fatalf("CheckPassword should accept the right password")
	}
	if CheckPassword(hash, "hunter23") {
		t.Fatalf("CheckPassword should reject the wrong password")
	}
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	token, err := NewIssuer(testSecret, time.Hour).Issue("user-42")
	if err != nil {
		t.Fatal(err)
	}

	r := gin.New()
	r.GET("/protected", RequireAuth(NewVerifier(testSecret)), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserID(c)})
	})

	cases := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"no header", "", http.StatusUnauthorized, "no_token"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "no_token"},
		{"wrong scheme", "Basic " + token, http.StatusForbidden, "invalid_token"},
		{"bad token", "Bearer nope", http.StatusForbidden, "invalid_token"},
		{"valid", "Bearer " + token, http.StatusOK, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != c.wantStatus {
				t.Fatalf("status = %d; want %d (body %s)", w.Code, c.wantStatus, w.Body.String())
			}
			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if c.wantCode != "" {
				if body["code"] != c.wantCode || body["success"] != false {
					t.Fatalf("body = %v; want code %q", body, c.wantCode)
				}
				return
			}
			if body["userId"] != "user-42" {
				t.Fatalf("userId = %v", body["userId"])
			}
		})
	}
}
