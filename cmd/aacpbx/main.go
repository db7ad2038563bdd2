// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ik5/aacpbx/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.RootCommand(cli.NewApp()).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "aacpbx:", err)
		stop()
		os.Exit(1)
	}
}
