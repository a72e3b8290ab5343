//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd

package xconsole

func isTerminalFd(int) bool { return false }
