package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"realty-dashboard/internal/listing"
)

// listQuery reads the list parameters shared by every table endpoint:
// page, pageSize, sortBy, sortDirection, search plus the named filters.
func listQuery(c *fiber.Ctx, filters ...string) listing.Query {
	q := listing.Query{
		Search:   c.Query("search"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", listing.DefaultPageSize),
		Sort: listing.SortState{
			Key:       c.Query("sortBy"),
			Direction: listing.ParseDirection(c.Query("sortDirection"), ""),
		},
		Filters: map[string]string{},
	}
	for _, key := range filters {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			q.Filters[key] = v
		}
	}
	return q
}
