package slip

import (
	"github.com/smallbiznis/cloudslip/internal/slip/service"
	"go.uber.org/fx"
)

var Module = fx.Module("slip.service",
	fx.Provide(service.NewService),
)
