//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package http

func osRelease() string {
	return ""
}
