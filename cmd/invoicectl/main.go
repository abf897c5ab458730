package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"invoice-gateway/internal/cli"
	"invoice-gateway/internal/invoice"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd(nil).ExecuteContext(ctx); err != nil {
		if e, ok := invoice.AsError(err); ok {
			fmt.Fprintf(os.Stderr, "%s (%s, HTTP %d)\n", e.Message, e.Kind, e.Status)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
