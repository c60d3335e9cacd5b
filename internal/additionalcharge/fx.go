package additionalcharge

import (
	"github.com/smallbiznis/cloudslip/internal/additionalcharge/service"
	"go.uber.org/fx"
)

var Module = fx.Module("additionalcharge.service",
	fx.Provide(service.NewService),
)
