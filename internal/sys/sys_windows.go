//go:build windows

package sys

import (
	"golang.org/x/sys/windows"
	"os"
	"unsafe"
)

// SYSTEM_INFO defines the Windows SYSTEM_INFO structure.
type SYSTEM_INFO struct {
	ProcessorArchitecture     uint16
	Reserved                  uint16
	PageSize                  uint32
	MinimumApplicationAddress uintptr
	MaximumApplicationAddress uintptr
	ActiveProcessorMask       uintptr
	NumberOfProcessors        uint32
	ProcessorType             uint32
	AllocationGranularity     uint32
	ProcessorLevel            uint16
	ProcessorRevision         uint16
}

var getSystemInfoProc = windows.NewLazySystemDLL("kernel32").NewProc("GetSystemInfo")

func GetSystemInfo() (si SYSTEM_INFO, err error) {
	r1, _, err := getSystemInfoProc.Call(uintptr(unsafe.Pointer(&si)))
	if r1 == 0 {
		return si, err
	}
	return si, nil
}

// GetSysPageSize returns the system's memory page size.
func GetSysPageSize() int {
	si, err := GetSystemInfo()
	if err != nil {
		return 4096
	}
	return int(si.PageSize)
}

// OpenFile opens path for reading and writing, creating it when missing.
// Buffered I/O is kept on: pages are not sector aligned.
func OpenFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
}

func AdviseSequential(file *os.File) error {
	return nil
}

func Datasync(file *os.File) error {
	return windows.FlushFileBuffers(windows.Handle(file.Fd()))
}
