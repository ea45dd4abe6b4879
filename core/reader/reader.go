// Package reader defines the hierarchical configuration source modules are
// built from. Sections are entered and left with Push and Pop in strict
// nesting order; keys are resolved relative to the current section.
package reader

import (
	"errors"
	"fmt"
)

// Reader is a hierarchical key-value source.
type Reader interface {
	// Push enters the named child section of the current section.
	Push(section string) error
	// Pop leaves the section entered by the matching Push.
	Pop() error
	// Read decodes the value stored under key into out.
	Read(key string, out any) error
	// Bind decodes the whole current section into out.
	Bind(out any) error
	// Has reports whether key exists in the current section.
	Has(key string) bool
	// Keys lists the immediate child keys of the current section.
	Keys() []string
	// Path is the dotted path of the current section.
	Path() string
}

// ErrConfiguration is the sentinel matched by every ConfigurationError.
var ErrConfiguration = errors.New("configuration error")

// ConfigurationError reports a missing, mistyped or invalid configuration entry.
type ConfigurationError struct {
	Section string
	Key     string
	Err     error
}

func (e *ConfigurationError) Error() string {
	where := e.Key
	if e.Section != "" {
		if where == "" {
			where = e.Section
		} else {
			where = e.Section + "." + e.Key
		}
	}
	if e.Err == nil {
		return fmt.Sprintf("configuration error at %q", where)
	}
	return fmt.Sprintf("configuration error at %q: %v", where, e.Err)
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConfiguration}
	}
	return []error{ErrConfiguration, e.Err}
}

// Errorf builds a ConfigurationError for key in section.
func Errorf(section, key, format string, args ...any) error {
	return &ConfigurationError{Section: section, Key: key, Err: fmt.Errorf(format, args...)}
}

// Read decodes key from r into a fresh value of type T.
func Read[T any](r Reader, key string) (T, error) {
	var v T
	err := r.Read(key, &v)
	return v, err
}

// Within runs fn with r positioned on section and always pops afterwards.
func Within(r Reader, section string, fn func() error) (err error) {
	if err := r.Push(section); err != nil {
		return err
	}
	defer func() {
		if perr := r.Pop(); perr != nil && err == nil {
			err = perr
		}
	}()
	return fn()
}
