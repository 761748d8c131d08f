//go:build linux

package sys

import (
	"golang.org/x/sys/unix"
	"os"
)

// AdviseSequential tells the kernel the whole file is going to be read front to back.
func AdviseSequential(file *os.File) error {
	return unix.Fadvise(int(file.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}

func Datasync(file *os.File) error {
	return unix.Fdatasync(int(file.Fd()))
}
