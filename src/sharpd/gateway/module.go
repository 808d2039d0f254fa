package gateway

import (
	"github.com/uber/sharpd/src/sharpd/gateway/omnisharp"
	"go.uber.org/fx"
)

// Module provides all outbound gateways into an Fx application.
var Module = fx.Options(
	fx.Provide(omnisharp.New),
)
