package billing

import (
	"github.com/contaflow/facturel/internal/billing/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.repository",
	fx.Provide(repository.NewRepository),
)
