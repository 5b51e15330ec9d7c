package main

import (
	"os"
	"path/filepath"
)

// runtimeDir returns the directory lldpd keeps its sidecar files in: the
// neighbor store, the capture worker's PID file, its log, and the
// diagnostic session ledger. Defaults to the running executable's
// directory; LLDPD_RUNTIME_DIR overrides it for tests and packaging.
func runtimeDir() string {
	if d := os.Getenv("LLDPD_RUNTIME_DIR"); d != "" {
		return d
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func pidFilePath() string {
	return filepath.Join(runtimeDir(), "capture.pid")
}

func captureLogPath() string {
	return filepath.Join(runtimeDir(), "winlldp_capture.log")
}

func sessionsDBPath() string {
	return filepath.Join(runtimeDir(), "capture_sessions.db")
}

func neighborsFilePath(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(runtimeDir(), fileName)
}
