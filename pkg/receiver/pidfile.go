// Package receiver implements the receiver controller: the thin lifecycle
// manager that owns the capture worker as an independent OS process
// (spec section 4.4).
package receiver

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"
)

// PIDFile wraps the sidecar file the capture worker writes its PID to and
// the controller reads to find it.
type PIDFile struct {
	path string
}

func NewPIDFile(path string) *PIDFile {
	return &PIDFile{path: path}
}

// Write records pid to the sidecar file.
func (p *PIDFile) Write(pid int) error {
	return os.WriteFile(p.path, []byte(strconv.Itoa(pid)), 0o644)
}

// Remove deletes the sidecar file. Missing files are not an error.
func (p *PIDFile) Remove() error {
	err := os.Remove(p.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Read returns the PID recorded in the sidecar file, or ok=false if the
// file is absent, empty, or unparseable (treated as "stopped" per spec
// section 4.4: "The controller MUST tolerate stale PID files").
func (p *PIDFile) Read() (pid int, ok bool) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// IsLive reports whether pid names a process that is actually alive.
// Signal 0 performs no action beyond existence/permission checks.
func IsLive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil
}

func (p *PIDFile) String() string {
	return fmt.Sprintf("PIDFile(%s)", p.path)
}
