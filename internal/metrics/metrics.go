// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedemptionsTotal counts successful redemptions by mode.
	RedemptionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vouchervault_redemptions_total",
		Help: "Number of successful voucher redemptions.",
	}, []string{"mode"})

	// InviteResponsesTotal counts invite responses by outcome.
	InviteResponsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vouchervault_invite_responses_total",
		Help: "Number of resolved family invites.",
	}, []string{"outcome"})

	// PushesSentTotal counts push notifications handed to the dispatcher.
	PushesSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vouchervault_pushes_sent_total",
		Help: "Number of push notifications dispatched.",
	})
)

// Redemption modes for RedemptionsTotal.
const (
	ModeStrict  = "strict"
	ModeClamped = "clamped"
	ModeCode    = "code"
)
