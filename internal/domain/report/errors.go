package report

import "errors"

var (
	ErrInvalidKind     = errors.New("invalid report kind")
	ErrFounderRequired = errors.New("founder role required for this report")
	ErrNotYourReport   = errors.New("collaborators may only read their own report")
)
