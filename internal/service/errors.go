package service

import "errors"

var (
	ErrNotFound                = errors.New("not found")
	ErrInvalidInput            = errors.New("invalid input")
	ErrDuplicateContractNumber = errors.New("contract number already exists")
)
