package settings

import "errors"

var ErrRateConfigNotFound = errors.New("rate config not found")
