//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"soundscript/internal/ports"
)

const (
	wmHotkey    = 0x0312
	wmQuit      = 0x0012
	modNoRepeat = 0x4000
	hotkeyID    = 1
	releasePoll = 15 * time.Millisecond
	keyDownFlag = 0x8000
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
	procGetMessageW      = user32.NewProc("GetMessageW")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
	procPostThreadMsgW   = user32.NewProc("PostThreadMessageW")
	procCurrentThreadID  = kernel32.NewProc("GetCurrentThreadId")
)

// Source implements ports.HotkeySource with a Windows global hotkey. A held
// chord yields exactly one Pressed; a background poll of the key state emits
// the matching Released.
type Source struct {
	events   chan ports.HotkeyEvent
	held     atomic.Bool
	threadID atomic.Uint32
	done     chan struct{}
}

func New(chord string) (*Source, error) {
	mod, vk, err := parseChord(chord)
	if err != nil {
		return nil, err
	}

	s := &Source{
		events: make(chan ports.HotkeyEvent, 8),
		done:   make(chan struct{}),
	}

	registered := make(chan error, 1)
	go s.messageLoop(mod, vk, registered)

	select {
	case err := <-registered:
		if err != nil {
			return nil, err
		}
	case <-time.After(2 * time.Second):
		return nil, fmt.Errorf("timeout registering hotkey %q", chord)
	}
	return s, nil
}

func (s *Source) Events() <-chan ports.HotkeyEvent {
	return s.events
}

// Close unregisters the hotkey and stops the message loop.
func (s *Source) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}
	close(s.done)
	if tid := s.threadID.Load(); tid != 0 {
		procPostThreadMsgW.Call(uintptr(tid), wmQuit, 0, 0)
	}
	return nil
}

// The hotkey must be registered and its messages received on the same locked
// OS thread.
func (s *Source) messageLoop(mod, vk uint32, registered chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	tid, _, _ := procCurrentThreadID.Call()
	s.threadID.Store(uint32(tid))

	r, _, _ := procRegisterHotKey.Call(0, hotkeyID, uintptr(mod|modNoRepeat), uintptr(vk))
	if r == 0 {
		registered <- fmt.Errorf("RegisterHotKey failed for mod 0x%X vk 0x%X", mod, vk)
		return
	}
	defer procUnregisterHotKey.Call(0, hotkeyID)
	registered <- nil

	var msg struct {
		Hwnd    uintptr
		Message uint32
		WParam  uintptr
		LParam  uintptr
		Time    uint32
		PtX     int32
		PtY     int32
	}
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(ret) <= 0 {
			return
		}
		if msg.Message != wmHotkey || msg.WParam != hotkeyID {
			continue
		}
		if !s.held.CompareAndSwap(false, true) {
			continue
		}
		s.emit(ports.HotkeyPressed)
		go s.watchRelease(vk)
	}
}

// watchRelease polls the key state until the chord's final key goes up.
func (s *Source) watchRelease(vk uint32) {
	ticker := time.NewTicker(releasePoll)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			s.held.Store(false)
			return
		case <-ticker.C:
			state, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
			if state&keyDownFlag == 0 {
				s.held.Store(false)
				s.emit(ports.HotkeyReleased)
				return
			}
		}
	}
}

// emit blocks until the consumer takes the event. Dropping a Released here
// would leave the consumer recording, so lossless delivery wins over keeping
// the message loop responsive behind a slow consumer.
func (s *Source) emit(ev ports.HotkeyEvent) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}
