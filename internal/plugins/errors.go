package plugins

import (
	"errors"
	"fmt"

	"github.com/EmundoT/rebase-helper/internal/types"
)

var (
	// ErrUnknownPlugin indicates no plugin of the kind has the requested name.
	ErrUnknownPlugin = errors.New("unknown plugin")

	// ErrUnavailablePlugin indicates the plugin exists but its backing tool
	// is not installed.
	ErrUnavailablePlugin = errors.New("plugin unavailable")
)

// LookupError is returned by Registry.Get.
type LookupError struct {
	Kind Kind
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// LoadError records a plugin that failed while being loaded.
type LoadError struct {
	Kind Kind
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("loading %s plugin: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("loading %s plugin %q: %v", e.Kind, e.Name, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// BuildError is returned by builders. Transport failures (the builder
// could not be reached or crashed) are never retried; content failures may
// be repaired by build-log hooks.
type BuildError struct {
	Kind      types.BuildErrorKind
	Message   string
	Logs      []string
	Transport bool
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Kind, e.Message)
}

// IsBuildError checks if an error is a BuildError.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}
