package risk

import (
	"github.com/opencampus/beacon/internal/risk/repository"
	"github.com/opencampus/beacon/internal/risk/service"
	"go.uber.org/fx"
)

var Module = fx.Module("risk.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
