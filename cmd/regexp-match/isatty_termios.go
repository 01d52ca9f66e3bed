//go:build linux || darwin

package main

import (
	"syscall"
	"unsafe"
)

// isatty reports whether fd refers to a terminal by asking for its termios
func isatty(fd uintptr) bool {
	var termios syscall.Termios
	_, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, ioctlReadTermios, uintptr(unsafe.Pointer(&termios))) // #nosec G103 -- Required for terminal detection
	return errno == 0
}
