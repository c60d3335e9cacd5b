package billingprofile

import (
	"github.com/smallbiznis/cloudslip/internal/billingprofile/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billingprofile.service",
	fx.Provide(service.NewService),
)
