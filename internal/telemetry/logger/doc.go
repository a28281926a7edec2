// Package logger provides structured logging for rumormesh.
//
// It wraps the standard library log/slog to provide structured JSON
// logging with a globally adjustable level.
//
// Features:
//   - JSON structured logging (default) or text for consoles
//   - Log level configuration, adjustable at runtime
//   - Context-aware logging
package logger
