//go:build linux || darwin || freebsd || netbsd || openbsd

package http

import "golang.org/x/sys/unix"

// osRelease returns the kernel release reported by uname(2).
func osRelease() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return ""
	}
	return unix.ByteSliceToString(u.Release[:])
}
