package auth

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"sportsdesk/internal/domain/entity"
)

// login results
const (
	loginOK         = "success"
	loginBadRequest = "bad_request"
	loginRejected   = "rejected"
)

var (
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "POST /auth/token attempts by result",
		},
		[]string{"result"},
	)

	loginDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "auth_login_duration_seconds",
			Help: "Time spent checking credentials and signing the token",
			// bcrypt dominates
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	tokenRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_rejections_total",
			Help: "Presented tokens that failed verification, by source",
		},
		[]string{"source"}, // header | cookie
	)

	roleDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_role_denials_total",
			Help: "Requests refused by a role guard, by required and actual role",
		},
		[]string{"required", "actual"},
	)
)

func recordLogin(result string, since time.Time) {
	loginsTotal.WithLabelValues(result).Inc()
	if result != loginBadRequest {
		loginDuration.Observe(time.Since(since).Seconds())
	}
}

func recordTokenRejection(source string) {
	tokenRejections.WithLabelValues(source).Inc()
}

// recordRoleDenial labels anonymous viewers "anonymous".
func recordRoleDenial(required []entity.Role, viewer *entity.User) {
	names := make([]string, len(required))
	for i, r := range required {
		names[i] = string(r)
	}
	actual := "anonymous"
	if viewer != nil {
		actual = string(viewer.Role)
	}
	roleDenials.WithLabelValues(strings.Join(names, "|"), actual).Inc()
}
