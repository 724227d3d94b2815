package collision

import "errors"

var (
	ErrUnsupportedPair = errors.New("unsupported collider pairing")
	ErrDegenerateShape = errors.New("convex collider needs at least three vertices")
)
