package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselog/courselog-api/internal/models"
	"github.com/courselog/courselog-api/internal/service"
)

const testSecret = "test_secret"

func testAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, service.AuthConfig{
		TokenSecret: testSecret,
		TokenExpiry: time.Hour,
		Issuer:      "courselog-api",
	})
}

func signTestToken(t *testing.T, claims *models.Claims) string {
	t.Helper()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "courselog-api",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := JWT(testAuthService())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/user/profile", nil)

	guard(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, c.IsAborted())
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := JWT(testAuthService())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	c.Request.Header.Set("Authorization", "Token abc")

	guard(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, c.IsAborted())
}

func TestJWTRejectsInactiveAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := JWT(testAuthService())

	token := signTestToken(t, &models.Claims{UserID: "user-1", Role: models.RoleLecturer, IsActive: false})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	guard(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, c.IsAborted())
	assert.Contains(t, rec.Body.String(), "not activated")
}

func TestJWTStoresClaimsForActiveAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := JWT(testAuthService())

	token := signTestToken(t, &models.Claims{UserID: "user-1", Role: models.RoleLecturer, IsActive: true})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	c.Request.Header.Set("Authorization", "Bearer "+token)

	guard(c)

	assert.False(t, c.IsAborted())
	value, exists := c.Get(ContextUserKey)
	require.True(t, exists)
	claims := value.(*models.Claims)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestOptionalJWTIgnoresBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	guard := OptionalJWT(testAuthService())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/user/signin", nil)
	c.Request.Header.Set("Authorization", "Bearer garbage")

	guard(c)

	assert.False(t, c.IsAborted())
	_, exists := c.Get(ContextUserKey)
	assert.False(t, exists)
}
