package codes

import (
	"errors"
	"net/http"

	"lendpool/core"
)

const (
	// Internal error without a domain code
	Internal = -1
)

var statuses = map[core.ErrorCode]int{
	core.ErrUnauthorized:       http.StatusUnauthorized,
	core.ErrPoolNotInitialized: http.StatusNotFound,
	core.ErrReentrantCall:      http.StatusConflict,
	core.ErrPoolAlreadyExists:  http.StatusConflict,
}

// Get domain code carried by err
func Get(err error) (core.ErrorCode, bool) {
	var code core.ErrorCode
	if errors.As(err, &code) {
		return code, true
	}

	return 0, false
}

// Status http status and error code of err
func Status(err error) (int, int) {
	code, ok := Get(err)
	if !ok {
		return http.StatusInternalServerError, Internal
	}

	if status, ok := statuses[code]; ok {
		return status, int(code)
	}

	return http.StatusBadRequest, int(code)
}
