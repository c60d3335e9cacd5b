package prorata

import (
	"github.com/smallbiznis/cloudslip/internal/prorata/service"
	"go.uber.org/fx"
)

var Module = fx.Module("prorata.service",
	fx.Provide(service.NewService),
)
