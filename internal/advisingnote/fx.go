package advisingnote

import (
	"github.com/opencampus/beacon/internal/advisingnote/repository"
	"github.com/opencampus/beacon/internal/advisingnote/service"
	"go.uber.org/fx"
)

var Module = fx.Module("advisingnote.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
