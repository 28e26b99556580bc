package student

import (
	"github.com/opencampus/beacon/internal/student/repository"
	"github.com/opencampus/beacon/internal/student/service"
	"go.uber.org/fx"
)

var Module = fx.Module("student.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
