// Package log provides the logging abstraction used by dugout components.
//
// Components depend on the [Logger] interface only. [ZerologAdapter] backs it
// with zerolog for the CLI, and [NoopLogger] discards everything for tests
// and embedders that bring no logger.
//
//	logger := log.NewZerologAdapter(log.LevelInfo)
//	logger.Info("page rendered", log.String("page", "index"))
//
// Embedders with their own logging stack implement the four methods:
//
//	type MyLogger struct { ... }
//
//	func (l *MyLogger) Debug(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Info(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Warn(msg string, fields ...log.Field) { ... }
//	func (l *MyLogger) Error(msg string, fields ...log.Field) { ... }
package log
