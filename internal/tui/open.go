package tui

import (
	"os/exec"
	"runtime"
)

// openPath opens path with the system's default application, fire-and-forget.
func openPath(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		return
	}
	_ = cmd.Start()
}
