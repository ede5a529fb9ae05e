// Package services implements the business layer between HTTP handlers and
// the haulage pipeline.
//
// DashboardService owns an immutable dataset snapshot and a configured
// haulage.Calculator. Each query recomputes the requested view from the
// records:
//
//	svc, err := services.NewDashboardService(ds, calc, metrics, logger)
//	view, err := svc.Dashboard(ctx, nil) // default period: latest month
//	view, err := svc.Dashboard(ctx, &haulage.Period{Year: 2024, Month: 3})
//
// Nothing is cached and no state is shared between calls, so the service is
// safe for concurrent use. Every call runs inside an OpenTelemetry span and
// records the haul_* pipeline metrics.
//
// Errors are the sentinels in errors.go wrapped with %w. The transport layer
// maps them to RFC 7807 problems.
//
// HealthService backs the health, readiness and liveness probes.
package services
