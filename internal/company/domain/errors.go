package domain

import "errors"

var (
	ErrCompanyNotFound  = errors.New("company_not_found")
	ErrContractNotFound = errors.New("contract_not_found")
	ErrAccountNotFound  = errors.New("account_not_found")
	ErrMappingNotFound  = errors.New("mapping_not_found")
	ErrAccountUnmapped  = errors.New("account_unmapped")
)
