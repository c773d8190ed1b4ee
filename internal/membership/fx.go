package membership

import (
	"github.com/alumnihq/alumnihq/internal/membership/repository"
	"github.com/alumnihq/alumnihq/internal/membership/service"
	"go.uber.org/fx"
)

var Module = fx.Module("membership.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
