package pipeline

import "fmt"

// ConfigError reports a problem with the run's environment: a missing data
// root, an unusable output root or a lock held by another run. It is fatal
// and detected before any recording is processed.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
