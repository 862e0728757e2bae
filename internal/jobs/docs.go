// Package jobs drives the periodic refresh of the marketplace services.
//
// Each data service (orders, products, weather) gets one PollingController built on
// github.com/robfig/cron/v3. A controller is a small state machine:
//
//	Stopped --Start--> Running --Pause--> Paused --Resume--> Running
//	   ^                  |                  |
//	   +------Stop--------+-------Stop-------+
//
// # Refresh protocol
//
// A refresh is split into two phases. Fetch loads data without touching the service state and
// may take as long as the upstream needs. After it returns the controller checks its state again
// and installs the result only if it is still Running, so a Pause or Stop issued during a slow
// load wins over the load.
//
// # Usage
//
//	manager := jobs.NewJobManager(logger,
//		jobs.NewPollingController("orders", 5*time.Minute, orderService, logger, metrics),
//		jobs.NewPollingController("products", 10*time.Minute, catalogService, logger, metrics),
//		jobs.NewPollingController("weather", 30*time.Minute, weatherMonitor, logger, metrics),
//	)
//
//	if err := manager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start polling:", err)
//	}
//	defer manager.StopAll(ctx)
//
// # Error Handling
//
// Refresh errors are logged and counted at the loop boundary. A failed tick never cancels the
// schedule; the next tick simply tries again.
package jobs
