package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/isdmx/boxlet/config"
	"github.com/isdmx/boxlet/logger"
	"github.com/isdmx/boxlet/mcpserver"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.New,
			logger.NewFromConfig,
			mcpserver.New,
		),

		// Start the appropriate transport based on config
		fx.Invoke(
			func(cfg *config.Config, server *mcpserver.MCPServer) {
				switch cfg.Bridge.Transport {
				case "stdio":
					go func() {
						if err := server.ServeStdio(); err != nil {
							panic(err)
						}
					}()
				case "http":
					go func() {
						if err := server.ServeHTTP(); err != nil {
							panic(err)
						}
					}()
				default:
					panic("unsupported transport: " + cfg.Bridge.Transport)
				}
			},
		),

		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
	)

	app.Run()
}
