package catalog

import (
	"errors"
	"fmt"
)

// ErrResourceNotFound matches every *ResourceNotFoundError.
var ErrResourceNotFound = errors.New("resource not found")

// ResourceNotFoundError is returned when a name does not resolve to an
// embedded resource.
type ResourceNotFoundError struct {
	Name string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.Name)
}

// Is reports whether target is ErrResourceNotFound.
func (e *ResourceNotFoundError) Is(target error) bool {
	return target == ErrResourceNotFound
}

// ArtifactLoadError is returned when a catalog cannot bind to an artifact.
type ArtifactLoadError struct {
	Path string // empty when the running executable could not be resolved
	Err  error
}

func (e *ArtifactLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load artifact: %v", e.Err)
	}
	return fmt.Sprintf("load artifact %s: %v", e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}
