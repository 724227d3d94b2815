package system

import "errors"

var ErrClosed = errors.New("world is closed")
