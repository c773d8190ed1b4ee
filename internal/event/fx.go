package event

import (
	"github.com/alumnihq/alumnihq/internal/event/repository"
	"github.com/alumnihq/alumnihq/internal/event/service"
	"go.uber.org/fx"
)

var Module = fx.Module("event.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
