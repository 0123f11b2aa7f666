/*
Package errors defines the error taxonomy: protocol errors demultiplexed
from the wire's response code, and client-side errors raised by the
connection orchestrator (not connected, no master, unknown node,
invalid argument, socket read/send failures).

Every error is a single *Error type carrying a Kind, so callers branch
with errors.Is/errors.As instead of string matching:

	if errors.IsNotFound(err) {
		// key absent, not a failure
	}

IsRetryable reports which kinds the outer retry loop in the orchestrator
may transparently retry (§7 Propagation): NotMaster, NoLongerMaster,
NoMaster, and connection-drop/socket-read errors. Every other kind,
including WrongCluster, propagates directly to the caller.
*/
package errors
