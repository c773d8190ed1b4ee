package donation

import (
	"github.com/alumnihq/alumnihq/internal/donation/repository"
	"github.com/alumnihq/alumnihq/internal/donation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("donation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
