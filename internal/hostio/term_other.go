//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package hostio

// IsTerminal always reports false on platforms without terminal detection
func IsTerminal(fd uintptr) bool {
	return false
}
