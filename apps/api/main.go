package main

import (
	"github.com/alumnihq/alumnihq/internal/clock"
	"github.com/alumnihq/alumnihq/internal/config"
	"github.com/alumnihq/alumnihq/internal/logger"
	"github.com/alumnihq/alumnihq/internal/migration"
	"github.com/alumnihq/alumnihq/internal/scheduler"
	"github.com/alumnihq/alumnihq/internal/server"
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
		migration.Module,

		server.Module,
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
