package models

import "errors"

var (
	ErrFetchFailed    = errors.New("organisation access operation failed")
	ErrNoOrganisation = errors.New("requested organisation is not in the client's access list")
	ErrInvalidAction  = errors.New("unknown organisation access action")
	ErrNoRole         = errors.New("no role recorded for client")
)
