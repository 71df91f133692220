// Command yarrowd reads broker settings from the environment and an
// operator list from the YAML file they name, builds the registry, and
// serves until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/opcore/yarrow"
	"github.com/opcore/yarrow/config"

	_ "github.com/opcore/yarrow/operators"

	"github.com/opcore/yarrow/broker"
)

func main() {
	flag.Parse()
	if err := serve(); err != nil {
		slog.Error("yarrowd exited", "error", err)
		os.Exit(1)
	}
}

func serve() error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	names, err := config.ReadOperatorList(settings.ConfigFilename)
	if err != nil {
		return fmt.Errorf("read operator list: %w", err)
	}

	registered, err := yarrow.Build(names)
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}

	conn, err := broker.Dial(settings.Host, settings.Port, settings.VirtualHost, settings.Username, settings.Password)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	srv := yarrow.NewServer(registered, conn.Channel(),
		yarrow.WithOnPublish(func(ctx context.Context, op string, env yarrow.Envelope) {
			slog.Info("published", "operator", op, "status", env.Status.String(), "num", env.Num)
		}),
		yarrow.WithOnError(func(ctx context.Context, op string, err error) {
			slog.Error("dispatch failed", "operator", op, "error", err)
		}),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	slog.Info("yarrowd serving", "operators", len(registered))
	err = srv.Run(ctx)
	if err == context.Canceled {
		return nil
	}
	return err
}
