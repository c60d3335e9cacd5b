package domain

import "errors"

var ErrChargeNotFound = errors.New("additional_charge_not_found")
