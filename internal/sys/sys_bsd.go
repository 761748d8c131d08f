//go:build unix && !linux

package sys

import (
	"golang.org/x/sys/unix"
	"os"
)

func AdviseSequential(file *os.File) error {
	return nil
}

func Datasync(file *os.File) error {
	return unix.Fsync(int(file.Fd()))
}
