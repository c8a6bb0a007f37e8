package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Roster operation counter
	RosterOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooster_roster_operations_total",
			Help: "Total number of roster operations",
		},
		[]string{"operation"}, // "create", "publish", "delete", "from_template", etc.
	)

	// Shift operation counter
	ShiftOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooster_shift_operations_total",
			Help: "Total number of shift operations",
		},
		[]string{"operation"}, // "create", "update", "delete", "confirm"
	)

	// Conflict counter by kind
	ShiftConflictCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooster_shift_conflicts_total",
			Help: "Total number of rejected shift mutations by conflict kind",
		},
		[]string{"kind"}, // "overlap" or "availability"
	)

	// Tenant operation counter
	TenantOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooster_tenant_operations_total",
			Help: "Total number of tenant operations",
		},
		[]string{"operation"},
	)

	// Authorization denial counter
	AuthzDenialCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooster_authz_denials_total",
			Help: "Total number of denied authorization checks",
		},
		[]string{"action"},
	)

	// Authentication error counter
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooster_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // "missing_token", "invalid_token", etc.
	)

	// Notification counter
	NotificationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooster_notifications_total",
			Help: "Total number of dispatched notifications by event and outcome",
		},
		[]string{"event", "outcome"}, // outcome is "delivered" or "failed"
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooster_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rooster_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rooster_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rooster_info",
			Help: "Information about the scheduling service",
		},
		[]string{"version"},
	)

	// Published rosters per tenant
	PublishedRostersGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rooster_published_rosters",
			Help: "Number of published rosters per tenant",
		},
		[]string{"tenant_id"},
	)

	// Active staff per tenant
	ActiveStaffGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rooster_active_staff",
			Help: "Number of active staff members per tenant",
		},
		[]string{"tenant_id"},
	)
)

func init() {
	prometheus.MustRegister(RosterOperationCounter)
	prometheus.MustRegister(ShiftOperationCounter)
	prometheus.MustRegister(ShiftConflictCounter)
	prometheus.MustRegister(TenantOperationCounter)
	prometheus.MustRegister(AuthzDenialCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(NotificationCounter)
	prometheus.MustRegister(HTTPRequestCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	prometheus.MustRegister(InfoGauge)
	prometheus.MustRegister(PublishedRostersGauge)
	prometheus.MustRegister(ActiveStaffGauge)

	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics.
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware captures request count and duration for each request.
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordRosterOperation records a roster operation.
func RecordRosterOperation(operation string) {
	RosterOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordShiftOperation records a shift operation.
func RecordShiftOperation(operation string) {
	ShiftOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordShiftConflict records a rejected shift mutation by conflict kind.
func RecordShiftConflict(kind string) {
	ShiftConflictCounter.With(prometheus.Labels{"kind": kind}).Inc()
}

// RecordTenantOperation records a tenant operation.
func RecordTenantOperation(operation string) {
	TenantOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordAuthzDenial records a denied authorization check.
func RecordAuthzDenial(action string) {
	AuthzDenialCounter.With(prometheus.Labels{"action": action}).Inc()
}

// RecordAuthError records an authentication error by type.
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordNotification records a dispatched notification outcome.
func RecordNotification(event, outcome string) {
	NotificationCounter.With(prometheus.Labels{"event": event, "outcome": outcome}).Inc()
}

// UpdatePublishedRosters updates the published rosters gauge for a tenant.
func UpdatePublishedRosters(tenantID uint, count int) {
	PublishedRostersGauge.With(prometheus.Labels{
		"tenant_id": strconv.FormatUint(uint64(tenantID), 10),
	}).Set(float64(count))
}

// UpdateActiveStaff updates the active staff gauge for a tenant.
func UpdateActiveStaff(tenantID uint, count int) {
	ActiveStaffGauge.With(prometheus.Labels{
		"tenant_id": strconv.FormatUint(uint64(tenantID), 10),
	}).Set(float64(count))
}
