package neighbor

import (
	"os"
	"syscall"
)

// acquireLock takes an exclusive advisory lock on the sidecar file at
// path, creating it if necessary, and returns a function that releases
// it. Spec section 4.2: "An exclusive advisory lock on a sidecar .lock
// file ... MUST be held across read-modify-write."
func acquireLock(path string) (release func(), err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		f.Close()
	}, nil
}
