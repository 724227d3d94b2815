package scene

import "errors"

// Scene errors
var (
	// Tree errors

	ErrOutOfBounds           = errors.New("position outside tree bounds")
	ErrNotContained          = errors.New("no child bound contains position")
	ErrNotFound              = errors.New("entity not found in tree")
	ErrAlreadyIndexed        = errors.New("entity already indexed")
	ErrSubdivisionLostEntity = errors.New("subdivision could not re-home entity")

	// Scene errors

	ErrReinsertFailed      = errors.New("moved entity could not be reinserted")
	ErrTraversalInProgress = errors.New("structural change during traversal")
)
