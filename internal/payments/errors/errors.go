package errors

import "errors"

var (
	ErrNotFound = errors.New("payment not found")

	ErrDuplicateOrder = errors.New("payment for order already recorded")

	ErrGateway = errors.New("payment gateway request failed")
)
