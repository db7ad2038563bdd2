// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat  = errors.New("unknown audio format")
)

// UnknownFormatError is returned when no decoder is registered for a file.
type UnknownFormatError struct {
	Name   string
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("%s: %s (%q)", ErrUnknownFormat, e.Name, e.Format)
}

func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }
