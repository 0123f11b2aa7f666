/*
Package log provides structured logging for the client, wrapping zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper
functions for common logging patterns. All logs include timestamps and
support filtering by severity level.

# Usage

Initializing the logger:

	import "github.com/openvstorage/arakoon-go/pkg/log"

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Context loggers add fields that are carried on every subsequent entry:

	nodeLog := log.WithNodeID("node-0")
	nodeLog.Debug().Msg("prologue sent")

	msgLog := log.WithMessage("Get").With().Str("node_id", "node-0").Logger()
	msgLog.Warn().Dur("backoff", d).Msg("retrying after NotMaster")

The package-level Logger is the zero-configuration fallback; call Init
once at process startup before any other package in this module logs.
*/
package log
