package device

import (
	"os"

	"golang.org/x/sys/unix"
)

// ioctl はデバイスファイルに対してioctlを発行する
func ioctl(f *os.File, request uintptr, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), request, arg)
	if errno != 0 {
		return errno
	}
	return nil
}
