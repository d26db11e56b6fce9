package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type slugBody struct {
	Slug string `json:"slug" binding:"required,slug"`
}

func TestRegisterValidators_Slug(t *testing.T) {
	RegisterValidators()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/slugged", func(c *gin.Context) {
		var body slugBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"slug": body.Slug})
	})

	t.Run("accepts kebab-case slugs", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/slugged", bytes.NewBufferString(`{"slug":"iron-temple-accra"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects spaces and uppercase", func(t *testing.T) {
		for _, slug := range []string{"Iron Temple", "UPPER", "trailing-", "-leading", "double--dash"} {
			req := httptest.NewRequest("POST", "/slugged", bytes.NewBufferString(`{"slug":"`+slug+`"}`))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code, slug)
		}
	})
}
