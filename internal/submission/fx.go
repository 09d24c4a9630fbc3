package submission

import (
	"github.com/contaflow/facturel/internal/submission/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("submission.repository",
	fx.Provide(repository.NewRepository),
)
