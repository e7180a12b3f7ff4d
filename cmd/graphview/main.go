package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/phanxgames/graphview/internal/cli"
	"github.com/segmentio/encoding/json"
)

func main() {
	logs.Encoder = json.Marshal
	errors.Encoder = json.Marshal

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		logs.Fatal(err)
	}
}
