package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/backoffice-api/internal/application/dto"
)

// page lee limit/offset con valores por defecto.
func page(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}

// period lee from/to como RFC3339 o fecha (2006-01-02). Vacíos quedan en cero.
func period(c *fiber.Ctx) (dto.ReportPeriod, bool) {
	from, ok := parseTime(c.Query("from"))
	if !ok {
		return dto.ReportPeriod{}, false
	}
	to, ok := parseTime(c.Query("to"))
	if !ok {
		return dto.ReportPeriod{}, false
	}
	return dto.ReportPeriod{From: from, To: to}, true
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
