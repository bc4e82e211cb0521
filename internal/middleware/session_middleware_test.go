package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionTest() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SessionMiddleware())
	router.GET("/test", func(c *gin.Context) {
		sessionID, ok := GetSessionID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": sessionID})
	})
	return router
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	router := setupSessionTest()

	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var issued *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookieName {
			issued = cookie
		}
	}
	require.NotNil(t, issued)
	_, err := uuid.Parse(issued.Value)
	assert.NoError(t, err)
	assert.True(t, issued.HttpOnly)
}

func TestSessionMiddleware_ReusesExistingCookie(t *testing.T) {
	router := setupSessionTest()

	sessionID := uuid.NewString()
	req := httptest.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), sessionID)

	// No replacement cookie is issued
	for _, cookie := range w.Result().Cookies() {
		assert.NotEqual(t, SessionCookieName, cookie.Name)
	}
}
