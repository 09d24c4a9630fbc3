package einvoice

import (
	"go.uber.org/fx"

	"github.com/contaflow/facturel/internal/einvoice/service"
)

// Module provides the transformation service.
var Module = fx.Module("einvoice.service",
	fx.Provide(service.NewService),
)
