//go:build windows

package app

// Windows has no SIGTSTP; suspending is a no-op.
func (app *Application) suspendToShell() {
}

func (app *Application) resumeAfterStop() bool {
	return false
}
