package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

type PageResponse[T any] struct {
	Data  []T   `json:"data"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// CursorResponse pages backwards through a feed. NextBefore is nil on the
// last page.
type CursorResponse[T any] struct {
	Data       []T   `json:"data"`
	NextBefore *uint `json:"next_before"`
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}

// Page writes one page of a filtered listing. total is the unpaged count.
func Page[T any](c *gin.Context, data []T, page, limit int, total int64) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, PageResponse[T]{
		Data:  data,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func Cursor[T any](c *gin.Context, data []T, nextBefore *uint) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, CursorResponse[T]{
		Data:       data,
		NextBefore: nextBefore,
	})
}
