package renderer

import "errors"

var (
	ErrNotInitialized     = errors.New("renderer: not initialized")
	ErrAlreadyInitialized = errors.New("renderer: already initialized")
	ErrAssetLoad          = errors.New("renderer: asset load failure")
	ErrPersist            = errors.New("renderer: cannot persist frame")
	ErrShapeMismatch      = errors.New("renderer: vertex and index buffer counts differ")
)
