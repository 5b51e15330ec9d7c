package receiver

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/nullgraph/lldpd/pkg/lldperr"
)

// stopGraceDeadline is how long the controller waits for a graceful
// termination before forcibly killing the worker (spec section 4.4/5).
const stopGraceDeadline = 5 * time.Second

// Controller owns the capture worker's lifecycle: start, stop, status,
// log (spec section 4.4). It is a thin wrapper over os/exec and the PID
// sidecar file — it never touches the neighbor store directly.
type Controller struct {
	// WorkerArgs builds the command used to spawn the capture worker,
	// e.g. [os.Args[0], "capture-worker"].
	WorkerArgs []string
	PIDFile    *PIDFile
	LogPath    string
}

// Status reports whether the worker is running.
type Status struct {
	Running bool
	PID     int
	Uptime  time.Duration
}

// Start spawns the capture worker detached from the controlling terminal,
// redirecting its stdio to the append-mode capture log. It refuses if the
// PID file names a live process (spec section 4.4).
func (c *Controller) Start() error {
	if pid, ok := c.PIDFile.Read(); ok && IsLive(pid) {
		return lldperr.Newf(lldperr.WorkerAlreadyRunning, "capture worker already running (pid %d)", pid)
	}
	// A stale PID file (unparseable, or naming a process that no longer
	// exists) is tolerated: clean it up and proceed. A PID that names any
	// live process counts as running, whether or not that process is the
	// capture worker.
	_ = c.PIDFile.Remove()

	logFile, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open capture log %s: %w", c.LogPath, err)
	}
	defer logFile.Close()

	if len(c.WorkerArgs) == 0 {
		return fmt.Errorf("receiver: no worker command configured")
	}
	cmd := exec.Command(c.WorkerArgs[0], c.WorkerArgs[1:]...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	// Detach from the controlling terminal's process group so the
	// worker outlives the frontend command that spawned it.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start capture worker: %w", err)
	}
	// Release the exec.Cmd's hold on the child without waiting; the
	// controller's job is "return immediately" (spec section 4.4).
	if err := cmd.Process.Release(); err != nil {
		return fmt.Errorf("release capture worker process: %w", err)
	}

	return c.PIDFile.Write(cmd.Process.Pid)
}

// Stop sends a graceful termination signal if the PID file names a live
// process, waits up to stopGraceDeadline, then forcibly kills it. The PID
// file is always removed on return.
func (c *Controller) Stop() error {
	pid, ok := c.PIDFile.Read()
	if !ok || !IsLive(pid) {
		_ = c.PIDFile.Remove()
		return lldperr.Newf(lldperr.WorkerNotRunning, "no running capture worker")
	}
	defer c.PIDFile.Remove()

	process, err := os.FindProcess(pid)
	if err != nil {
		return nil
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal capture worker (pid %d): %w", pid, err)
	}

	deadline := time.Now().Add(stopGraceDeadline)
	for time.Now().Before(deadline) {
		if !IsLive(pid) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	if IsLive(pid) {
		_ = process.Kill()
	}
	return nil
}

// StatusOf reports the current running state of the capture worker.
func (c *Controller) StatusOf() Status {
	pid, ok := c.PIDFile.Read()
	if !ok || !IsLive(pid) {
		return Status{Running: false}
	}
	return Status{Running: true, PID: pid, Uptime: processUptime(pid)}
}

// Log streams the capture log file contents to w.
func (c *Controller) Log(w io.Writer) error {
	f, err := os.Open(c.LogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// processUptime is best-effort: without a portable /proc-free way to read
// a process's start time, uptime reporting falls back to zero when it
// cannot be determined rather than failing status entirely.
func processUptime(pid int) time.Duration {
	info, err := os.Stat(fmt.Sprintf("/proc/%d", pid))
	if err != nil {
		return 0
	}
	return time.Since(info.ModTime())
}
