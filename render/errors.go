package render

import "errors"

var (
	// ErrSingularTransform is returned when a camera's world transform cannot be inverted,
	// so no view matrix, and therefore no frustum, exists for it.
	ErrSingularTransform = errors.New("render: camera transform is not invertible")
)
