package render

import (
	"errors"
	"fmt"
)

// ErrUnsupported matches every UnsupportedFeatureError via errors.Is.
var ErrUnsupported = errors.New("unsupported feature")

// UnsupportedFeatureError reports a construct the target dialect cannot express.
// It is returned before any SQL is produced.
type UnsupportedFeatureError struct {
	Feature Feature
	Dialect string
	Hint    string
}

func (e UnsupportedFeatureError) Error() string {
	msg := fmt.Sprintf("%s: %s is not supported", e.Dialect, e.Feature)
	if e.Hint == "" {
		return msg
	}
	return msg + ": " + e.Hint
}

// Unwrap returns ErrUnsupported.
func (e UnsupportedFeatureError) Unwrap() error { return ErrUnsupported }

// NewUnsupportedFeatureError builds the error a dialect returns from Supports.
func NewUnsupportedFeatureError(dialect string, feature Feature, hint ...string) error {
	err := UnsupportedFeatureError{Feature: feature, Dialect: dialect}
	if len(hint) > 0 {
		err.Hint = hint[0]
	}
	return err
}
