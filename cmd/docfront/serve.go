package main

import (
	"context"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"docfront/internal/config"
	"docfront/internal/form"
	handlers "docfront/internal/http/handler"
	"docfront/internal/http/middleware"
	"docfront/internal/logging"
	"docfront/internal/metrics"
	"docfront/internal/otel"
)

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromViper(v)
			log := logging.New(cfg.Log)

			shutdownTracing, err := otel.Init(ctx, log)
			if err != nil {
				return err
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdownTracing(sctx)
			}()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			notifications, err := metrics.NewNotifications(reg)
			if err != nil {
				return err
			}
			storeState, err := metrics.NewStoreState(reg)
			if err != nil {
				return err
			}
			promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
			if err != nil {
				return err
			}

			fe := newFrontend(ctx, log, form.Async, notifications)
			defer fe.store.Subscribe(storeState.Observe)()
			fe.store.Load(ctx)

			a := fiber.New(fiber.Config{
				ErrorHandler: handlers.ErrorHandler(),
			})
			a.Use(middleware.RequestID())
			a.Use(middleware.Logger(log))
			a.Use(otelfiber.Middleware())
			a.Use(promMiddleware.Handler())

			ping := func(ctx context.Context) error {
				_, err := fe.api.List(ctx)
				return err
			}
			handlers.RegisterRoutes(a, handlers.Frontend{
				Store:       fe.store,
				Form:        fe.form,
				Table:       fe.table,
				Coordinator: fe.coord,
				Inbox:       fe.inbox,
			}, ping, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

			go func() {
				<-ctx.Done()
				_ = a.ShutdownWithTimeout(5 * time.Second)
			}()

			if port == "" {
				port = cfg.Port
			}
			log.WithField("api_url", cfg.API.BaseURL).Infof("listening on :%s", port)
			return a.Listen(":" + port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (default $PORT or 8080)")
	return cmd
}
