package helper

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Paging resolver (query → skip/limit)
=================================*/

type Paging struct {
	Offset int
	Limit  int
}

// ResolvePaging reads ?skip= & ?limit= and normalizes them.
// The old ?page=/?per_page= pair is still accepted as an alias.
func ResolvePaging(c *fiber.Ctx, defaultLimit, maxLimit int) Paging {
	limit := parseIntDefault(c.Query("limit"), defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	offset := parseIntDefault(c.Query("skip"), -1)
	if offset < 0 {
		// page alias
		page := parseIntDefault(c.Query("page"), 1)
		if page < 1 {
			page = 1
		}
		if pp := parseIntDefault(c.Query("per_page"), 0); pp > 0 {
			limit = pp
			if maxLimit > 0 && limit > maxLimit {
				limit = maxLimit
			}
		}
		offset = (page - 1) * limit
	}

	return Paging{Offset: offset, Limit: limit}
}

type Pagination struct {
	Total   int64 `json:"total"`
	Skip    int   `json:"skip"`
	Limit   int   `json:"limit"`
	Count   int   `json:"count"`
	HasNext bool  `json:"has_next"`
}

func BuildPagination(total int64, p Paging, count int) Pagination {
	return Pagination{
		Total:   total,
		Skip:    p.Offset,
		Limit:   p.Limit,
		Count:   count,
		HasNext: int64(p.Offset+count) < total,
	}
}

/* ===============================
   Small parse utils
=================================*/

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
