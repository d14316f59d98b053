package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"docfront/internal/http/middleware"
	"docfront/internal/mockapi"
)

func mockAPICmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "mockapi",
		Short: "Serve an in-memory document API for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := cliLogger()
			a := fiber.New(fiber.Config{DisableStartupMessage: true})
			a.Use(middleware.Logger(log))
			mockapi.New().Register(a.Group("/api"))

			go func() {
				<-cmd.Context().Done()
				_ = a.ShutdownWithTimeout(5 * time.Second)
			}()
			log.Warnf("mock API on http://localhost:%s/api", port)
			return a.Listen(":" + port)
		},
	}
	cmd.Flags().StringVar(&port, "port", "8001", "listen port")
	return cmd
}
