//go:build !linux && !windows && !darwin

package main

import (
	"runtime"

	"github.com/cockroachdb/errors"

	"github.com/jnkdev/vkprog/window"
)

func checkPlatform() error {
	return errors.Mark(errors.Newf("%s/%s is not supported", runtime.GOOS, runtime.GOARCH), window.ErrPlatformUnsupported)
}
