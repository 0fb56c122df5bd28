package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ridgeworks/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWorkflowErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		code int
	}{
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrNotFound, http.StatusNotFound},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{service.ErrInvalidState, http.StatusConflict},
		{service.ErrAlreadySigned, http.StatusConflict},
		{service.ErrValidation, http.StatusBadRequest},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		workflowError(c, tc.err)
		assert.Equal(t, tc.code, w.Code, tc.err.Error())
		assert.Contains(t, w.Body.String(), `"success":false`)
	}
}

func TestParsePagination(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query              string
		wantLimit, wantOff int
	}{
		{"", 20, 0},
		{"limit=50&offset=10", 50, 10},
		{"limit=0", 20, 0},
		{"limit=1000", 20, 0},
		{"offset=-5", 20, 0},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		limit, offset := parsePagination(c)
		assert.Equal(t, tc.wantLimit, limit, tc.query)
		assert.Equal(t, tc.wantOff, offset, tc.query)
	}
}
