package wallpost

import (
	"github.com/alumnihq/alumnihq/internal/wallpost/repository"
	"github.com/alumnihq/alumnihq/internal/wallpost/service"
	"go.uber.org/fx"
)

var Module = fx.Module("wallpost.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
