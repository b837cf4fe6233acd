// Package shutdown ties a command run to process termination signals.
//
// A Handler gives the command a context that is cancelled on SIGINT or
// SIGTERM, so in-flight zfs calls are aborted, and runs the registered
// exit hooks (metrics flush) once the command returns:
//
//	h := shutdown.NewHandler(5 * time.Second)
//	ctx, stop := h.Context(context.Background())
//	defer stop()
//	h.OnShutdown(flushMetrics)
//	...
//	err := h.Shutdown()
package shutdown
