package gateway

import "go.uber.org/fx"

// Module provides the gateway client.
var Module = fx.Module("gateway.client",
	fx.Provide(NewClient),
)
