// SPDX-License-Identifier: EPL-2.0

package cli

import "errors"

var (
	ErrInvalidSetting = errors.New("invalid setting")
	ErrNoInput        = errors.New("an input file or --tone is required")
	ErrNothingDecoded = errors.New("stream ended before a frame was decoded")
)
