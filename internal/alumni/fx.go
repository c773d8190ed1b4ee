package alumni

import (
	"github.com/alumnihq/alumnihq/internal/alumni/repository"
	"github.com/alumnihq/alumnihq/internal/alumni/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alumni.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
