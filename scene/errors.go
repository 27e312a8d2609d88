package scene

import "errors"

// ErrInvalidScene is wrapped by every validation failure.
var ErrInvalidScene = errors.New("scene: invalid configuration")
