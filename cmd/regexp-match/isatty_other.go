//go:build !linux && !darwin

package main

// isatty reports false where terminal detection is not implemented
func isatty(fd uintptr) bool {
	return false
}
