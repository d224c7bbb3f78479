package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gaf135/ivegan-versao-atual/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(guards ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthRequired(testSecret)}, guards...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "role": GetRole(c)})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestGenerateAndParseToken(t *testing.T) {
	user := &models.User{ID: 7, Email: "ana@x.com", Role: models.RoleCustomer}
	token, err := GenerateToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, models.RoleCustomer, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: 1})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseToken(signed, testSecret)
	assert.Error(t, err)
}

func TestAuthRequired(t *testing.T) {
	valid, err := GenerateToken(&models.User{ID: 3, Email: "a@b.com", Role: models.RoleCustomer}, testSecret, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken(&models.User{ID: 3, Email: "a@b.com"}, testSecret, -time.Minute)
	require.NoError(t, err)
	foreign, err := GenerateToken(&models.User{ID: 3, Email: "a@b.com"}, []byte("other"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "missing header", header: "", wantCode: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", wantCode: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc.def", wantCode: http.StatusForbidden},
		{name: "expired token", header: "Bearer " + expired, wantCode: http.StatusForbidden},
		{name: "wrong secret", header: "Bearer " + foreign, wantCode: http.StatusForbidden},
		{name: "valid token", header: "Bearer " + valid, wantCode: http.StatusOK},
	}

	r := newAuthRouter()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}

func TestAdminRequired(t *testing.T) {
	r := newAuthRouter(AdminRequired())

	customer, err := GenerateToken(&models.User{ID: 1, Email: "c@x.com", Role: models.RoleCustomer}, testSecret, time.Hour)
	require.NoError(t, err)
	admin, err := GenerateToken(&models.User{ID: 2, Email: "a@x.com", Role: models.RoleAdmin}, testSecret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+customer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":2,"role":"admin"}`, w.Body.String())
}
