package errors

import "errors"

var (
	ErrOfferingNotFound              = errors.New("offering not found")
	ErrProductNotFound               = errors.New("referenced product not found")
	ErrProductRetired                = errors.New("referenced product is retired")
	ErrInvalidOfferingInput          = errors.New("invalid offering input")
	ErrProductReassignmentNotAllowed = errors.New("offering cannot be moved to a different product")
)
