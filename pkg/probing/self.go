package probing

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// LauncherPIDEnv lets a wrapper script report the pid users will see for
// this tool, so it is excluded instead of the Go process.
const LauncherPIDEnv = "JVMPROF_LAUNCHER_PID"

// SelfPID returns the pid to exclude from discovery. A malformed launcher
// pid is reported alongside the runtime pid it fell back to.
func SelfPID() (int32, error) {
	return selfPID(os.Getenv(LauncherPIDEnv))
}

func selfPID(launcher string) (int32, error) {
	launcher = strings.TrimSpace(launcher)
	if launcher == "" {
		return int32(unix.Getpid()), nil
	}
	pid, err := strconv.ParseInt(launcher, 10, 32)
	if err != nil || pid <= 0 {
		return int32(unix.Getpid()), fmt.Errorf("invalid %s %q, using runtime pid", LauncherPIDEnv, launcher)
	}
	return int32(pid), nil
}
