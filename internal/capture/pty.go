package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"

	"github.com/engramhq/engram/internal/logging"
)

// Supervisor runs an agent command under a pseudo-terminal, forwarding the
// controlling terminal bi-directionally while mirroring every output byte
// into a bounded buffer for later heuristic extraction.
type Supervisor struct {
	Command string
	Args    []string
	Dir     string
	Stdin   *os.File
	Stdout  *os.File

	buf *RingBuffer
}

// NewSupervisor builds a Supervisor that mirrors output into a RingBuffer
// capped at maxBufferBytes (0 selects the package default).
func NewSupervisor(command string, args []string, dir string, maxBufferBytes int) *Supervisor {
	return &Supervisor{
		Command: command,
		Args:    args,
		Dir:     dir,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		buf:     NewRingBuffer(maxBufferBytes),
	}
}

// Run spawns the command under a PTY, blocks until it exits, and returns
// the process's exit code. The captured output is available via Output
// after Run returns (success or failure).
func (s *Supervisor) Run(ctx context.Context) (int, error) {
	ctx = logging.WithComponent(ctx, "capture")

	cmd := exec.CommandContext(ctx, s.Command, s.Args...)
	cmd.Dir = s.Dir

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return -1, fmt.Errorf("capture: starting pty: %w", err)
	}
	defer ptmx.Close() //nolint:errcheck

	s.propagateResize(ptmx)

	var restoreStdin func()
	if term.IsTerminal(int(s.Stdin.Fd())) {
		oldState, rawErr := term.MakeRaw(int(s.Stdin.Fd()))
		if rawErr == nil {
			restoreStdin = func() { _ = term.Restore(int(s.Stdin.Fd()), oldState) }
			defer restoreStdin()
		}
	}

	go func() {
		if _, copyErr := io.Copy(ptmx, s.Stdin); copyErr != nil {
			logging.Debug(ctx, "stdin forwarding ended", "error", copyErr)
		}
	}()

	out := io.MultiWriter(s.Stdout, s.buf)
	_, copyErr := io.Copy(out, ptmx)
	if copyErr != nil && !isBenignPTYError(copyErr) {
		logging.Warn(ctx, "reading agent output", "error", copyErr)
	}

	waitErr := cmd.Wait()
	if waitErr == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("capture: waiting for agent: %w", waitErr)
}

// Output returns everything mirrored into the bounded buffer so far.
func (s *Supervisor) Output() []byte {
	return s.buf.Bytes()
}

// OutputTruncated reports whether the buffer cap forced any bytes out.
func (s *Supervisor) OutputTruncated() bool {
	return s.buf.Truncated()
}

func (s *Supervisor) propagateResize(ptmx *os.File) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		for range ch {
			_ = pty.InheritSize(s.Stdin, ptmx)
		}
	}()
	ch <- syscall.SIGWINCH // sync size on start
}

func isBenignPTYError(err error) bool {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err == syscall.EIO
	}
	return false
}
