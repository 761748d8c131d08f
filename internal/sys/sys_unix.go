//go:build unix

package sys

import (
	"golang.org/x/sys/unix"
	"os"
)

func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_RDWR|unix.O_CLOEXEC, 0644)
}

func GetSysPageSize() int {
	return unix.Getpagesize()
}
