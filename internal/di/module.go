package di

import (
	"github.com/wanjiru/dukani/internal/adapter/gateway"
	"github.com/wanjiru/dukani/internal/app"
	"github.com/wanjiru/dukani/internal/config"
	"github.com/wanjiru/dukani/internal/logger"
	"github.com/wanjiru/dukani/internal/server/http/handlers"
	"github.com/wanjiru/dukani/internal/server/http/router"
	"github.com/wanjiru/dukani/internal/storage/postgres"
	"github.com/wanjiru/dukani/internal/usecase"
	"go.uber.org/fx"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		postgres.Module,
		gateway.Module,
		usecase.Module,
		fx.Provide(
			func(client gateway.Client) app.GatewayProvider { return client },
			func(facade *app.CommerceFacade) handlers.CommerceFacade { return facade },
			func(storage *postgres.Storage) handlers.HealthChecker { return storage },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
