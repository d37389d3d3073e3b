package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"estate_portal/internal/repository"
)

// StatsStore aggregates dashboard counters.
type StatsStore interface {
	Dashboard(ctx context.Context, days int) (*repository.DashboardStats, error)
}

var dashboard StatsStore

func InitStatsController(store StatsStore) {
	dashboard = store
}

// GetDashboardStats dashboard istatistiklerini getirir
func GetDashboardStats(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 90 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days must be between 1 and 90",
		})
	}

	stats, err := dashboard.Dashboard(c.UserContext(), days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch stats",
		})
	}
	return c.JSON(stats)
}
