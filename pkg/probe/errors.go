package probe

import "errors"

var (
	ErrInvalidTarget     = errors.New("probe: target url is not absolute")
	ErrInvalidMatrixFile = errors.New("probe: invalid target matrix file")
	ErrNoSites           = errors.New("probe: matrix has no sites")
	ErrNoDevices         = errors.New("probe: matrix has no devices")
)
