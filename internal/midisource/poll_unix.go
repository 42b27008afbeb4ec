//go:build linux || darwin

package midisource

import (
	"time"

	"golang.org/x/sys/unix"
)

// PollUnix performs a bounded-timeout poll(2) over fds, the host-poll
// primitive spec.md §4.3 step 2 calls for. Source implementations on
// poll-capable platforms (internal/midisource/alsaseq) build their
// WaitReadable on top of this.
func PollUnix(fds []PollFD, timeout time.Duration) (readable bool, err error) {
	if len(fds) == 0 {
		time.Sleep(timeout)
		return false, nil
	}
	raw := make([]unix.PollFd, len(fds))
	for i, fd := range fds {
		raw[i] = unix.PollFd{Fd: int32(fd.FD), Events: fd.Events}
	}
	n, err := unix.Poll(raw, int(timeout.Milliseconds()))
	if err != nil {
		if err == unix.EINTR {
			return false, nil
		}
		return false, err
	}
	return n > 0, nil
}
