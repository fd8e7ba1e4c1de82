// Command networksim runs the Terminal Network balancer against a
// synthetic or configured roster of colonies, serving its state over
// HTTP and persisting it to SQLite.
package main

import (
	"log/slog"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("networksim failed", "error", err)
		os.Exit(1)
	}
}
