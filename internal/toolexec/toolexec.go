// Package toolexec runs the external tools the editor shells out to
// (unrar, 7z, kumiko, fc-list) behind an interface tests can stub.
package toolexec

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Command is the Executor backed by os/exec.
type Command struct{}

// maxStderrLines bounds the stderr tail attached to errors.
const maxStderrLines = 20

// Run starts binary, streams each stdout line to onStdout and returns an
// error carrying the tail of stderr when the command fails.
func (Command) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", binary, err)
	}

	var (
		wg      sync.WaitGroup
		once    sync.Once
		scanErr error
		mu      sync.Mutex
		tail    []string
	)
	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), 8*1024*1024)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() { scanErr = err })
		}
	}

	wg.Add(2)
	go scan(stdout, func(line string) {
		if onStdout != nil {
			onStdout(line)
		}
	})
	go scan(stderr, func(line string) {
		mu.Lock()
		defer mu.Unlock()
		tail = append(tail, line)
		if len(tail) > maxStderrLines {
			tail = tail[1:]
		}
	})
	wg.Wait()

	if scanErr != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return fmt.Errorf("scan %s output: %w", binary, scanErr)
	}
	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		msg := strings.TrimSpace(strings.Join(tail, "\n"))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", binary, err, msg)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}

// Output runs binary and returns its stdout lines.
func Output(ctx context.Context, e Executor, binary string, args ...string) ([]string, error) {
	if e == nil {
		e = Command{}
	}
	var lines []string
	err := e.Run(ctx, binary, args, func(line string) {
		lines = append(lines, line)
	})
	return lines, err
}

// ErrNotFound reports a tool missing from PATH.
var ErrNotFound = errors.New("tool not found")

// LookPath resolves binary on PATH, wrapping failures in ErrNotFound.
func LookPath(binary string) (string, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return "", fmt.Errorf("%w: empty command", ErrNotFound)
	}
	p, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, binary)
	}
	return p, nil
}
