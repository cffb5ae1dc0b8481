package probe

import (
	"context"
	"os/exec"
	"time"
)

// commandTimeout bounds every external command invocation. Diagnostic dumps
// normally finish well under a second; anything slower is treated as absent.
const commandTimeout = 3 * time.Second

// runCommand executes name with args and returns its captured stdout.
// A missing binary, a non-zero exit, or hitting the timeout all yield "" —
// callers treat command output the same as any other optional source.
func runCommand(name string, args ...string) string {
	return runCommandTimeout(commandTimeout, name, args...)
}

func runCommandTimeout(timeout time.Duration, name string, args ...string) string {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return ""
	}
	return string(out)
}
