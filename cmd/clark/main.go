package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/clarkhq/clark/internal/blob"
	"github.com/clarkhq/clark/internal/clock"
	"github.com/clarkhq/clark/internal/config"
	"github.com/clarkhq/clark/internal/docai"
	"github.com/clarkhq/clark/internal/export"
	"github.com/clarkhq/clark/internal/invoice"
	"github.com/clarkhq/clark/internal/logger"
	"github.com/clarkhq/clark/internal/migration"
	"github.com/clarkhq/clark/internal/observability"
	"github.com/clarkhq/clark/internal/pipeline"
	"github.com/clarkhq/clark/internal/review"
	"github.com/clarkhq/clark/internal/server"
	"github.com/clarkhq/clark/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Domain
		blob.Module,
		docai.Module,
		invoice.Module,
		review.Module,
		pipeline.Module,
		export.Module,

		server.Module,
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
