package deposit

import (
	"github.com/smallbiznis/cloudslip/internal/deposit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("deposit.service",
	fx.Provide(service.NewService),
)
