// Package metrics defines and registers the custom Prometheus metrics for
// the clinic API. It is the single source of truth for metric names, labels,
// and help strings; promauto registers everything with the default registry
// at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// BookingsCreatedTotal counts appointments successfully created.
// Label:
//   - source: "public" (landing-page request) or "staff" (admin CRUD)
var BookingsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of appointments created, by source.",
	},
	[]string{"source"},
)

// BookingRejectionsTotal counts booking attempts rejected by a workflow gate.
// Label:
//   - reason: "validation", "past_date", "slot_taken", "slot_busy"
var BookingRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_rejections_total",
		Help:      "Total number of booking attempts rejected before any write.",
	},
	[]string{"reason"},
)

// SignupsTotal counts self-signup attempts by outcome.
// Label:
//   - result: "created", "rejected", "failed"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of self-signup attempts, by outcome.",
	},
	[]string{"result"},
)

// AuthorizationDeniedTotal counts requests refused by the group gate.
// Label:
//   - path: the route pattern that denied access
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of requests denied by the group authorization gate.",
	},
	[]string{"path"},
)

// ReservationsCreatedTotal counts hall reservations created.
var ReservationsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reservations_created_total",
		Help:      "Total number of hall reservations created.",
	},
)
