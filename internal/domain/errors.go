package domain

import "errors"

// Определение бизнес-ошибок
var (
	ErrPersonNotFound     = errors.New("person not found")
	ErrNodeNotFound       = errors.New("node not found in the current hierarchy")
	ErrMalformedRecord    = errors.New("malformed person record")
	ErrDuplicatePersonID  = errors.New("person with this id already exists")
	ErrSupervisorNotFound = errors.New("supervisor not found")
	ErrSelfReference      = errors.New("person cannot report to themselves")
	ErrCyclicReference    = errors.New("reporting line would create a cycle")
	ErrDataUnavailable    = errors.New("person records are unavailable")
)
