package handler

import (
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prodtrack/backend/internal/interfaces/http/middleware"
)

func init() {
	middleware.SetupValidator()
}

func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	return router
}

func perform(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
