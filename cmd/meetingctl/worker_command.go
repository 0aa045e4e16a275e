package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newWorkerCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run pipeline workers without the HTTP API",
		Long: "Starts the worker pool. With QUEUE_DRIVER=redis the workers consume jobs\n" +
			"queued by the API; with the memory driver they only serve this process.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := ctx.openApp(sigCtx)
			if err != nil {
				return err
			}
			defer application.Close()

			stopWorkers, err := application.StartWorkers(context.WithoutCancel(sigCtx))
			if err != nil {
				return err
			}
			application.Logger.Info("worker.started",
				zap.String("queue", application.Config.Queue.Driver),
				zap.Int("workers", application.Config.Pipeline.Workers),
			)

			<-sigCtx.Done()
			application.Logger.Info("worker.stopping")
			stopWorkers()
			return nil
		},
	}
}
