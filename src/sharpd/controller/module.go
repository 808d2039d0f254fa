package controller

import (
	"github.com/uber/sharpd/src/sharpd/controller/completer"
	"github.com/uber/sharpd/src/sharpd/controller/diagnostics"
	"github.com/uber/sharpd/src/sharpd/controller/server"
	"go.uber.org/fx"
)

// Module provides all controllers into an Fx application.
var Module = fx.Options(
	fx.Provide(diagnostics.New),
	fx.Provide(server.New),
	fx.Provide(completer.New),
)
