// Package alsaseq implements midisource.Source against the Linux ALSA
// sequencer device (/dev/snd/seq), read and ioctl'd directly through
// golang.org/x/sys/unix — no cgo, no libasound. The style (hand-rolled
// kernel-ABI constants and struct byte-layouts instead of a cgo wrapper) is
// grounded on _examples/other_examples/gen2brain-alsa__alsa.go's pure-Go
// rendering of the ALSA PCM ioctl ABI, applied here to the sequencer ioctl
// ABI documented in include/uapi/sound/asequencer.h. Polling the resulting
// descriptor and pulling fixed-size event records off it is grounded on
// _examples/original_source/src/alsa_receiver_queue.cpp's use of
// snd_seq_poll_descriptors/snd_seq_event_input.
//
//go:build linux

package alsaseq

import (
	"encoding/binary"
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/free-creations/a-j-midi/internal/midisource"
)

const devicePath = "/dev/snd/seq"

// Sequencer event wire size — struct snd_seq_event is a fixed 28 bytes on
// all supported architectures (type, flag, tag, queue, 8-byte time union,
// 2x2-byte source/dest addr, 12 bytes of event-specific data).
const eventSize = 28

// ioc computes an ioctl request number the way include/uapi/sound/asequencer.h's
// ioctls are defined, via the standard Linux _IOC(dir, 'S', nr, size) macro.
func ioc(dir, nr, size uintptr) uintptr {
	const ioctlTypeSeq = 'S'
	return (dir << 30) | (ioctlTypeSeq << 8) | nr | (size << 16)
}

var iocCreatePort = ioc(3 /* read|write */, 0x20, portInfoSize)

// portInfoSize is the byte size of struct snd_seq_port_info. Only the
// leading fields this adapter needs are populated; the kernel treats the
// rest as zeroed defaults.
const portInfoSize = 152

// Source is a pollable ALSA sequencer client exposing one input port that
// receives from whichever clients are connected to it.
type Source struct {
	fd       int
	clientID int32
	portID   int32
}

// Open opens a new ALSA sequencer client and creates one writable input
// port on it named clientName. The client's own name is not set, so it keeps
// the kernel's default. Other clients connect to that port explicitly (e.g.
// via aconnect/qjackctl); this adapter doesn't auto-subscribe to announces.
func Open(clientName string) (*Source, error) {
	fd, err := unix.Open(devicePath, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("alsaseq: open %s: %w", devicePath, err)
	}

	s := &Source{fd: fd}
	if err := s.createInputPort(clientName); err != nil {
		unix.Close(fd)
		return nil, err
	}
	return s, nil
}

// createInputPort issues SNDRV_SEQ_IOCTL_CREATE_PORT with write+subscribe
// capability, then resolves the client ID assigned by the kernel from the
// same ioctl reply.
func (s *Source) createInputPort(clientName string) error {
	buf := make([]byte, portInfoSize)
	// addr.client (offset 0, int8) left 0: kernel fills in this process's
	// client id on return.
	copy(buf[4:4+len(clientName)], clientName) // name[64] at offset 4
	const (
		capWrite     = 1 << 1
		capSubsWrite = 1 << 5
	)
	binary.LittleEndian.PutUint32(buf[68:72], capWrite|capSubsWrite) // capability
	const typeMidiGeneric = 1 << 1
	binary.LittleEndian.PutUint32(buf[72:76], typeMidiGeneric) // type

	if err := s.ioctl(iocCreatePort, buf); err != nil {
		return fmt.Errorf("alsaseq: create port: %w", err)
	}
	s.clientID = int32(buf[0]) // addr.client is byte 0 of the 4-byte addr
	s.portID = int32(int8(buf[1]))
	return nil
}

func (s *Source) ioctl(req uintptr, buf []byte) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(s.fd), req, uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return errno
	}
	return nil
}

// PollFDs exposes the single sequencer file descriptor for polling —
// equivalent to snd_seq_poll_descriptors.
func (s *Source) PollFDs() ([]midisource.PollFD, error) {
	return []midisource.PollFD{{FD: s.fd, Events: unix.POLLIN}}, nil
}

// WaitReadable polls the sequencer fd with the given bounded timeout.
func (s *Source) WaitReadable(timeout time.Duration) (bool, error) {
	return midisource.PollUnix([]midisource.PollFD{{FD: s.fd, Events: unix.POLLIN}}, timeout)
}

// ReadEvent pulls one fixed-size sequencer event record without blocking.
// The record's internal structure is left opaque, per spec.md §1's
// no-MIDI-interpretation non-goal.
func (s *Source) ReadEvent() (midisource.RawEvent, bool, error) {
	buf := make([]byte, eventSize)
	n, err := unix.Read(s.fd, buf)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("alsaseq: read: %w", err)
	}
	if n == 0 {
		return nil, true, nil
	}
	return midisource.RawEvent(buf[:n]), false, nil
}

// Close releases the sequencer client.
func (s *Source) Close() error {
	return unix.Close(s.fd)
}

func (s *Source) String() string {
	return fmt.Sprintf("alsaseq(client=%d, port=%d)", s.clientID, s.portID)
}
