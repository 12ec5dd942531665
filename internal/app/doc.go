// Package app wires the fund reporting service together and manages its
// lifecycle. Components are constructed at startup with explicit dependency
// injection and torn down in reverse order on shutdown.
//
// # Initialization Flow
//
//	1. Load configuration from environment and files
//	2. Initialize structured logging
//	3. Connect the Postgres pool and build repositories
//	4. Initialize services with their dependencies
//	5. Set up HTTP handlers and middleware
//	6. Start the HTTP server with graceful shutdown
//
// # Usage
//
//	application, err := app.NewApplication(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
package app
