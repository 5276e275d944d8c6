package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	dcnats "github.com/Strob0t/DocuCrew/internal/adapter/nats"
	"github.com/Strob0t/DocuCrew/internal/domain/crew"
)

func newWatchCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow progress events published by a running server over NATS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, closer, err := loadConfig(cmd, flags, os.Stderr)
			if err != nil {
				return err
			}
			defer closer.Close()

			if cfg.NATS.URL == "" {
				return errors.New("watch: no NATS URL configured (set NATS_URL or --nats-url)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pub, err := dcnats.Connect(ctx, cfg.NATS.URL, cfg.NATS.Subject)
			if err != nil {
				return err
			}
			defer func() { _ = pub.Close() }()

			out := cmd.OutOrStdout()
			cancel, err := pub.Subscribe(ctx, func(ev crew.ProgressEvent) {
				fmt.Fprintln(out, progressLine(ev))
			})
			if err != nil {
				return err
			}
			defer cancel()

			fmt.Fprintln(cmd.ErrOrStderr(), titleStyle.Render("watching "+cfg.NATS.URL))
			<-ctx.Done()
			return nil
		},
	}
}
