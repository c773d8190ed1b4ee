package main

import (
	"github.com/alumnihq/alumnihq/internal/alumni"
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/alumnihq/alumnihq/internal/config"
	"github.com/alumnihq/alumnihq/internal/dashboard"
	"github.com/alumnihq/alumnihq/internal/donation"
	"github.com/alumnihq/alumnihq/internal/event"
	"github.com/alumnihq/alumnihq/internal/logger"
	"github.com/alumnihq/alumnihq/internal/membership"
	"github.com/alumnihq/alumnihq/internal/providers/email"
	"github.com/alumnihq/alumnihq/internal/scheduler"
	"github.com/alumnihq/alumnihq/internal/wallpost"
	"github.com/alumnihq/alumnihq/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		email.Module,

		// Domain services required by scheduler
		alumni.Module,
		membership.Module,
		event.Module,
		donation.Module,
		wallpost.Module,
		dashboard.Module,

		// No server module!
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
