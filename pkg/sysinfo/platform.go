package sysinfo

import "runtime"

// osFamily renders runtime.GOOS as the capitalized family name the
// OS-version string expects (e.g. "windows" -> "Windows").
func osFamily() string {
	switch runtime.GOOS {
	case "windows":
		return "Windows"
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	default:
		return runtime.GOOS
	}
}

func osArch() string {
	return runtime.GOARCH
}
