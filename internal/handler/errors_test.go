package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ichi1107/bento-order-system/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func respondStatus(respond func(*gin.Context, error), err error) int {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	respond(c, err)
	return rec.Code
}

func TestNoStoreMembershipIsBadRequestOnEverySurface(t *testing.T) {
	responders := map[string]func(*gin.Context, error){
		"menu":      respondMenuError,
		"order":     respondOrderError,
		"store":     respondStoreError,
		"dashboard": respondDashboardError,
	}
	for name, respond := range responders {
		assert.Equal(t, http.StatusBadRequest, respondStatus(respond, service.ErrNoStore), name)
	}
}

func TestWrappedSentinelsKeepTheirStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest,
		respondStatus(respondOrderError, fmt.Errorf("%w: shipped", service.ErrInvalidStatus)))
	assert.Equal(t, http.StatusBadRequest,
		respondStatus(respondOrderError, fmt.Errorf("%w: pending to completed", service.ErrInvalidTransition)))
	assert.Equal(t, http.StatusNotFound,
		respondStatus(respondMenuError, fmt.Errorf("listing: %w", service.ErrMenuNotFound)))
	assert.Equal(t, http.StatusNotFound,
		respondStatus(respondStoreError, fmt.Errorf("assigning: %w", service.ErrRoleNotFound)))
	assert.Equal(t, http.StatusBadRequest,
		respondStatus(respondDashboardError, fmt.Errorf("report: %w", service.ErrInvalidDateFormat)))
}

func TestUnknownErrorsAreInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError,
		respondStatus(respondOrderError, fmt.Errorf("disk on fire")))
	assert.Equal(t, http.StatusInternalServerError,
		respondStatus(respondStoreError, fmt.Errorf("disk on fire")))
}
