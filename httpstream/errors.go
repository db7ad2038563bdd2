// SPDX-License-Identifier: EPL-2.0

package httpstream

import "errors"

var (
	ErrNotOpen          = errors.New("httpstream: stream not open")
	ErrStatus           = errors.New("httpstream: unexpected status")
	ErrWriteUnsupported = errors.New("httpstream: write not supported")
)
