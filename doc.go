// Package rotlog is a shared logging engine: leveled messages with a
// configurable prefix, written synchronously to a file or stream, with
// size-based rotation across a fixed ring of numbered files.
//
// Key features
//   - Numeric levels (DEBUG=10 ... CRITICAL=50) and the NONE=100 sentinel,
//     which is always written as a message level and silences everything
//     else as a threshold
//   - Prefix templates: %i context id, %d date, %t time, %l level name
//   - Rotation: app.log with 10 slots becomes app.01.log ... app.10.log;
//     the slot is switched before the first write past MaxFileSize
//   - Per-context overrides: a context (goroutine, request, task) can log to
//     its own file while every other context keeps the default
//   - One mutex per state; every line reaches the destination in a single
//     write, so concurrent writers never tear lines
//   - Configuration from code, YAML or ROTLOG_* environment variables
//   - Optional Prometheus counters, plus io.Writer, zerolog and log/slog
//     front ends
//
// Typical usage
//
//	svc := rotlog.NewService()
//	cfg := rotlog.NewConfig("/var/log/app.log", rotlog.LevelInfo)
//	cfg.MaxFiles, cfg.Prefix = 5, "%d %t %l"
//	if err := svc.StartLogging(cfg); err != nil { panic(err) }
//	defer svc.Close()
//
//	_ = svc.Info("processed")
//	job := svc.Context(42)
//	_ = svc.StartLoggingForContext(42, rotlog.NewConfig("/var/log/job42.log", rotlog.LevelDebug))
//	_ = job.Debugf("step %d", 3)
package rotlog
