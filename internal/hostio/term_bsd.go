//go:build darwin || freebsd || netbsd || openbsd || dragonfly

package hostio

import "golang.org/x/sys/unix"

// IsTerminal reports whether fd refers to a terminal
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TIOCGETA)
	return err == nil
}
