package runtime

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// NotifyContext is the root context of the register process. SIGINT from a
// terminal and SIGTERM from the orchestrator both start the drain.
func NotifyContext(parent context.Context) (context.Context, func()) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
