// SPDX-License-Identifier: EPL-2.0

//go:build !cgo

package device

import (
	"log/slog"
	"time"
)

// MalgoDriver needs cgo. In this build every method returns ErrCgoRequired.
type MalgoDriver struct{}

func NewMalgoDriver(*slog.Logger) *MalgoDriver { return &MalgoDriver{} }

func (*MalgoDriver) Install(Config) error                    { return ErrCgoRequired }
func (*MalgoDriver) Uninstall() error                        { return nil }
func (*MalgoDriver) Start() error                            { return ErrCgoRequired }
func (*MalgoDriver) Stop() error                             { return ErrCgoRequired }
func (*MalgoDriver) Read([]byte, time.Duration) (int, error) { return 0, ErrCgoRequired }
func (*MalgoDriver) Write([]byte) (int, error)               { return 0, ErrCgoRequired }
