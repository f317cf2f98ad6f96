//go:build windows

package scanner

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// setProcAttr starts the scanner in its own process group (CREATE_NEW_PROCESS_GROUP)
// so it can be signaled independently of this process's own console group.
func setProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}

// killProcessGroup first asks the group to exit via CTRL_BREAK_EVENT, then
// falls back to a hard kill of the direct child if the process is still
// alive immediately after. Job-object-based termination of the full
// descendant tree would be more thorough but is not implemented here.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, uint32(cmd.Process.Pid))
	_ = cmd.Process.Kill()
}
