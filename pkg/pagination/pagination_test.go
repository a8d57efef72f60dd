package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParse_Defaults(t *testing.T) {
	params := Parse(contextWithQuery(""))
	assert.Equal(t, DefaultPage, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)
	assert.Equal(t, 0, params.Offset)
}

func TestParse_OffsetFromPage(t *testing.T) {
	params := Parse(contextWithQuery("page=3&per_page=25"))
	assert.Equal(t, 3, params.Page)
	assert.Equal(t, 25, params.Limit)
	assert.Equal(t, 50, params.Offset)
}

func TestParse_CapsAtMaxLimit(t *testing.T) {
	params := Parse(contextWithQuery("per_page=5000"))
	assert.Equal(t, MaxLimit, params.Limit)
}

func TestParseWithMax_StoreCap(t *testing.T) {
	params := ParseWithMax(contextWithQuery("per_page=5000"), MaxStoreLimit)
	assert.Equal(t, MaxStoreLimit, params.Limit)
}

func TestParse_RejectsGarbage(t *testing.T) {
	params := Parse(contextWithQuery("page=-1&per_page=abc"))
	assert.Equal(t, DefaultPage, params.Page)
	assert.Equal(t, DefaultLimit, params.Limit)
}
