package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID uuid.UUID, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseUserID(t *testing.T) {
	req := require.New(t)
	userID := uuid.New()

	parsed, err := ParseUserID(signToken(t, userID, testSecret), []byte(testSecret))
	req.NoError(err)
	req.Equal(userID, parsed)

	// Wrong secret, garbage, and a non-uuid subject all error
	_, err = ParseUserID(signToken(t, userID, "other-secret"), []byte(testSecret))
	req.Error(err)

	_, err = ParseUserID("not-a-token", []byte(testSecret))
	req.Error(err)

	badSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"})
	signed, err := badSub.SignedString([]byte(testSecret))
	req.NoError(err)
	_, err = ParseUserID(signed, []byte(testSecret))
	req.Error(err)
}

func TestAuth_BindsUserID(t *testing.T) {
	req := require.New(t)
	userID := uuid.New()

	var gotID uuid.UUID
	var gotOK bool
	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserID(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, userID, testSecret))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	req.Equal(http.StatusOK, w.Code)
	req.True(gotOK)
	req.Equal(userID, gotID)
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	req := require.New(t)

	handler := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without valid auth")
	}))

	// No header
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	req.Equal(http.StatusUnauthorized, w.Code)
	req.Contains(w.Body.String(), "UNAUTHORIZED")

	// Wrong scheme
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic abc")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	req.Equal(http.StatusUnauthorized, w.Code)

	// Token signed with another secret
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, uuid.New(), "other-secret"))
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	req.Equal(http.StatusUnauthorized, w.Code)
}

func TestGetUserID_WithoutMiddleware(t *testing.T) {
	req := require.New(t)

	// A context that never passed through Auth yields ok=false, no panic
	userID, ok := GetUserID(context.Background())
	req.False(ok)
	req.Equal(uuid.Nil, userID)
}
