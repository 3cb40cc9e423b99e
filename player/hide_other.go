//go:build !windows

package player

import "os/exec"

// there is no console window to hide outside windows
func hideWindow(cmd *exec.Cmd) {}
