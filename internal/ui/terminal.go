package ui

import (
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"golang.org/x/term"
)

// rawActive tracks whether the terminal is in raw mode so that restore paths
// (defer, panic, signal) can coordinate without double-restoring.
var rawActive atomic.Bool

// savedState holds the termios snapshot taken before raw mode was entered.
var savedState *term.State

// escape sequences for the alternate screen and cursor visibility.
const (
	leaveAltScreen = "\x1b[?1049l"
	showCursor     = "\x1b[?25h"
)

// CaptureTerminalState snapshots the current termios before the program
// enters raw mode, so a restore from the signal or panic path can put the
// terminal back exactly as it was. Harmless when stdin is not a TTY.
func CaptureTerminalState() {
	if state, err := term.GetState(int(os.Stdin.Fd())); err == nil {
		savedState = state
	}
	rawActive.Store(true)
}

// RestoreTerminal undoes raw mode and leaves the alternate screen. Safe to
// call multiple times and from any exit path; only the first call acts.
func RestoreTerminal() {
	if !rawActive.CompareAndSwap(true, false) {
		return
	}
	fmt.Fprint(os.Stdout, leaveAltScreen+showCursor)
	if savedState != nil {
		_ = term.Restore(int(os.Stdin.Fd()), savedState)
	}
}

// InstallPanicHook returns a function to defer at the top of the UI
// goroutine: it restores the terminal before the panic message prints, then
// re-panics so the stack trace still reaches the user.
func InstallPanicHook() func() {
	return func() {
		if r := recover(); r != nil {
			RestoreTerminal()
			panic(r)
		}
	}
}

// InstallSignalHandlers restores the terminal and exits on SIGINT/SIGTERM.
// SIGINT exits with 130 (128 + signal 2), matching shell conventions.
func InstallSignalHandlers() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-ch
		RestoreTerminal()
		if sig == syscall.SIGTERM {
			os.Exit(143)
		}
		os.Exit(130)
	}()
}

// TerminalGuard ties terminal restoration to a scope.
//
//	guard := NewTerminalGuard()
//	defer guard.Close()
type TerminalGuard struct{}

// NewTerminalGuard snapshots the terminal state and returns a guard whose
// Close restores it.
func NewTerminalGuard() *TerminalGuard {
	CaptureTerminalState()
	return &TerminalGuard{}
}

// Close restores the terminal. Idempotent.
func (g *TerminalGuard) Close() {
	RestoreTerminal()
}

// IsTerminal reports whether the given file is attached to a TTY.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
