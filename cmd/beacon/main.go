package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/opencampus/beacon/internal/clock"
	"github.com/opencampus/beacon/internal/config"
	"github.com/opencampus/beacon/internal/logger"
	"github.com/opencampus/beacon/internal/migration"
	"github.com/opencampus/beacon/internal/server"
	"github.com/opencampus/beacon/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
