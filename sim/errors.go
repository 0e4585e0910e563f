package sim

import "fmt"

// ParseError reports a malformed distribution specification string.
// It is fatal at build time: no sampling happens after one is returned.
type ParseError struct {
	Spec   string // the offending specification string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid distribution spec %q: %s", e.Spec, e.Reason)
}

func errParse(spec, format string, args ...interface{}) error {
	return &ParseError{Spec: spec, Reason: fmt.Sprintf(format, args...)}
}

// ConfigError reports a structural mismatch detected at setup or while
// generating (group count mismatch, out-of-range IRM draw, non-positive
// bounds). Not retried; the run aborts without emitting a partial trace.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "configuration violation: " + e.Msg
}

func errConfig(format string, args ...interface{}) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}
