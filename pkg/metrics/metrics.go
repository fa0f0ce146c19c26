// Package metrics provides Prometheus metrics for the plant care service.
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PlantsTotal tracks plant lifecycle events by action (added|removed)
	PlantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plantcare",
			Subsystem: "store",
			Name:      "plants_total",
			Help:      "Total number of plant add/remove operations",
		},
		[]string{"action"},
	)

	// WateringsTotal tracks recorded watering events
	WateringsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "plantcare",
			Subsystem: "store",
			Name:      "waterings_total",
			Help:      "Total number of watering events recorded",
		},
	)

	// HealthIssuesTotal tracks health issue events by action (recorded|resolved)
	HealthIssuesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plantcare",
			Subsystem: "store",
			Name:      "health_issues_total",
			Help:      "Total number of health issue operations",
		},
		[]string{"action"},
	)

	// RemindersTotal tracks reminder lifecycle events by action (scheduled|fired|cancelled|snoozed)
	RemindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plantcare",
			Subsystem: "schedule",
			Name:      "reminders_total",
			Help:      "Total number of reminder lifecycle events",
		},
		[]string{"action"},
	)

	// PollCyclesTotal tracks poller cycles by outcome
	PollCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plantcare",
			Subsystem: "poller",
			Name:      "cycles_total",
			Help:      "Total number of reminder poll cycles",
		},
		[]string{"status"},
	)
)

// Handler exposes the default registry for echo.
func Handler() echo.HandlerFunc { return echo.WrapHandler(promhttp.Handler()) }
