package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/cloudslip/internal/clock"
	"github.com/smallbiznis/cloudslip/internal/config"
	"github.com/smallbiznis/cloudslip/internal/logger"
	"github.com/smallbiznis/cloudslip/internal/migration"
	"github.com/smallbiznis/cloudslip/internal/observability"
	"github.com/smallbiznis/cloudslip/internal/redis"
	"github.com/smallbiznis/cloudslip/internal/server"
	"github.com/smallbiznis/cloudslip/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.Load,
			newSnowflakeNode,
			clock.System,
		),
		logger.Module,
		observability.Module,
		db.Module,
		redis.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
