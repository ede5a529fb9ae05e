// Package http implements the HTTP handlers of the haulage dashboard. It is a
// thin layer between the chi router and the services package: handlers parse
// and validate query parameters, call a service and format the response.
//
// # Endpoints
//
//	GET /api/dashboard   full dashboard for ?year=&month=
//	GET /api/periods     year and month selectors
//	GET /api/summary     daily truck summary
//	GET /api/ranking     trucks by average daily tonnage, ascending
//	GET /api/metrics     key metrics and the efficiency donut
//	GET /api/loaders     loader efficiency over the whole dataset
//	GET /api/export      CSV or XLSX attachment
//	GET /                server-rendered dashboard
//	GET /charts          heatmap, ranking and donut charts
//
// # Error Handling
//
// All errors are written as RFC 7807 problems through
// errors.ErrorHandler. A year without a month (or the reverse), a
// non-integer value or a month outside 1..12 yields a 400 with code
// INVALID_PERIOD and one entry per offending field:
//
//	{
//	    "type": "/errors/dashboard/invalid-period",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Invalid period: year and month must be given together, month in 1..12",
//	    "error_code": "INVALID_PERIOD",
//	    "trace_id": "..."
//	}
//
// # Testing
//
// Handlers are tested with httptest against a testify mock of
// DashboardServiceInterface, and end to end against a real
// services.DashboardService built from testutil fixtures.
package http
