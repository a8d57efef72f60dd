package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	// MaxLimit caps customer-facing listings.
	MaxLimit = 100
	// MaxStoreLimit caps the store-facing order listing, which staff export in bulk.
	MaxStoreLimit = 1000
	MinLimit      = 1
)

// Params holds validated pagination parameters.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts and validates page/per_page from query parameters using the
// customer-facing cap.
func Parse(c *gin.Context) Params {
	return ParseWithMax(c, MaxLimit)
}

// ParseWithMax extracts page/per_page with a caller-supplied upper bound.
func ParseWithMax(c *gin.Context, max int) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > max {
		limit = max
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
