package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/contaflow/facturel/internal/billing"
	"github.com/contaflow/facturel/internal/clock"
	"github.com/contaflow/facturel/internal/config"
	"github.com/contaflow/facturel/internal/einvoice"
	"github.com/contaflow/facturel/internal/gateway"
	"github.com/contaflow/facturel/internal/migration"
	"github.com/contaflow/facturel/internal/observability"
	"github.com/contaflow/facturel/internal/server"
	"github.com/contaflow/facturel/internal/submission"
	"github.com/contaflow/facturel/pkg/db"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		billing.Module,
		submission.Module,
		gateway.Module,
		einvoice.Module,

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
