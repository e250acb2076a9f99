package updater

import (
	"adhan/internal/providers"
	"fmt"
	"os"
)

// Restarter replaces the running process with a fresh copy of itself.
type Restarter interface {
	Restart() error
}

type ExecRestarter struct {
	logger providers.Logger
}

func NewExecRestarter(logger providers.Logger) Restarter {
	return &ExecRestarter{logger: logger}
}

func (r *ExecRestarter) Restart() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}
	r.logger.Infof(providers.TypeApp, "Re-executing %s %v", exe, os.Args[1:])
	return relaunch(exe, os.Args)
}
