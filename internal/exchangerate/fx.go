package exchangerate

import (
	"github.com/smallbiznis/cloudslip/internal/exchangerate/repository"
	"github.com/smallbiznis/cloudslip/internal/exchangerate/service"
	"github.com/smallbiznis/cloudslip/internal/exchangerate/source"
	"go.uber.org/fx"
)

var Module = fx.Module("exchangerate.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(source.NewHTTPSource),
	fx.Provide(service.NewService),
)
