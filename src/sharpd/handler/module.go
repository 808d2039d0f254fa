package handler

import (
	controller "github.com/uber/sharpd/src/sharpd/controller"
	sharpd "github.com/uber/sharpd/src/sharpd/handler/sharpd"
	"github.com/uber/sharpd/src/sharpd/repository/session"
	"go.uber.org/fx"
)

// Module provides the sharpd server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(sharpd.New),
	fx.Invoke(func(h sharpd.Handler) {}),
)
