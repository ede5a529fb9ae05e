// Package app wires the haulage dashboard together: configuration, logging,
// OpenTelemetry, the dataset, services, the chi router and the HTTP server.
//
// # Initialization Flow
//
//	1. Load configuration from defaults, config.yaml and HAUL_* variables
//	2. Initialize logging and observability
//	3. Load the dataset (any load error aborts startup)
//	4. Build the calculator and services
//	5. Set up handlers and middleware
//	6. Start the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    return err
//	}
//	return application.Run()
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// Server.ShutdownTimeout and flushes the OpenTelemetry providers.
//
// # Error Handling
//
// Initialization errors are returned as *errors.AppError values. The app
// does not call os.Exit; main decides the exit code.
package app
