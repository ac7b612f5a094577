// Package logger provides a leveled logging facility backed by zap.
//
// The logger supports four levels: Debug, Info, Warn, and Error.
// Each log entry includes a timestamp, level, optional scope (such as a
// simulated-user ID), and message.
//
// # Basic Usage
//
// Using the default logger:
//
//	logger.Info("", "Load test started")
//	logger.Info("user-1", "Executing write action")
//	logger.Error("user-1", "Request failed: %v", err)
//
// Creating a custom logger:
//
//	l := logger.New(os.Stderr, logger.LevelDebug)
//	l.Debug("user-1", "Debug message")
//
// # Log Levels
//
// Messages below the configured level are filtered:
//   - LevelDebug: all messages
//   - LevelInfo: Info, Warn, Error
//   - LevelWarn: Warn, Error
//   - LevelError: Error only
//
// # Thread Safety
//
// All logging operations are safe for concurrent use; filtering and output
// go through zap's atomic level and synchronized core.
package logger
