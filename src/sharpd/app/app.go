package app

import (
	"context"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/sharpd/src/sharpd/gateway"
	"github.com/uber/sharpd/src/sharpd/handler"
	"github.com/uber/sharpd/src/sharpd/internal/clock"
	"github.com/uber/sharpd/src/sharpd/internal/core"
	"github.com/uber/sharpd/src/sharpd/internal/executor"
	"github.com/uber/sharpd/src/sharpd/internal/fs"
	"github.com/uber/sharpd/src/sharpd/internal/serverinfofile"
	"github.com/uber/sharpd/src/sharpd/internal/solution"
	"go.uber.org/fx"
)

// Module defines the sharpd application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	fs.Module,
	executor.Module,
	clock.Module,
	solution.Module,
	serverinfofile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(func(lc fx.Lifecycle) tally.Scope {
		rs, closer := tally.NewRootScope(tally.ScopeOptions{
			Tags: map[string]string{
				"service": "sharpd",
			},
		}, 1*time.Second)

		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})

		return rs
	}),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        "local",
			RuntimeEnvironment: "local",
		}
	}),
)
