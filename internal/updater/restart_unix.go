//go:build !windows

package updater

import (
	"os"
	"syscall"
)

func relaunch(exe string, args []string) error {
	return syscall.Exec(exe, args, os.Environ())
}
