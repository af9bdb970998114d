package invoice

import (
	"go.uber.org/fx"

	"github.com/clarkhq/clark/internal/invoice/repository"
	"github.com/clarkhq/clark/internal/invoice/service"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.New),
	fx.Provide(service.NewService),
)
