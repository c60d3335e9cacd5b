package partner

import (
	"github.com/smallbiznis/cloudslip/internal/partner/service"
	"go.uber.org/fx"
)

var Module = fx.Module("partner.service",
	fx.Provide(service.NewService),
)
