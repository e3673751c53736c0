// Package shell lets the front-end run allow-listed programs and open links.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/naimozcan/nyoworks-framework/internal/config"
	"github.com/naimozcan/nyoworks-framework/internal/desktop"
	"github.com/naimozcan/nyoworks-framework/internal/logging"
)

var (
	// ErrNotAllowed is returned for programs or links outside the configured scope.
	ErrNotAllowed = errors.New("not allowed by shell scope")
	// ErrChildNotFound is returned for an unknown or already exited child id.
	ErrChildNotFound = errors.New("child process not found")
)

// Event name prefixes; the child id is appended.
const (
	StdoutEvent = "shell://stdout/"
	ExitEvent   = "shell://exit/"
)

// Output is the result of a finished program.
type Output struct {
	Code   int    `json:"code"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// Shell is the capability bound to the front-end.
type Shell struct {
	scope     map[string]config.ShellScope
	allowOpen bool
	log       *logging.Logger

	emit    func(event string, data ...interface{})
	openURL func(url string) error

	mu       sync.Mutex
	children map[string]*ptyProcess
}

func newShell(cfg config.ShellConfig, log *logging.Logger) *Shell {
	scope := make(map[string]config.ShellScope, len(cfg.Scope))
	for _, s := range cfg.Scope {
		if s.Cmd == "" {
			s.Cmd = s.Name
		}
		scope[s.Name] = s
	}
	return &Shell{
		scope:     scope,
		allowOpen: cfg.Open,
		log:       log,
		emit:      func(string, ...interface{}) {},
		openURL:   func(string) error { return desktop.ErrNotStarted },
		children:  make(map[string]*ptyProcess),
	}
}

// resolve returns the program for a scoped alias, checking argument policy.
func (s *Shell) resolve(name string, args []string) (config.ShellScope, error) {
	entry, ok := s.scope[name]
	if !ok {
		return config.ShellScope{}, fmt.Errorf("%w: program %q", ErrNotAllowed, name)
	}
	if !entry.Args && len(args) > 0 {
		return config.ShellScope{}, fmt.Errorf("%w: arguments for %q", ErrNotAllowed, name)
	}
	return entry, nil
}

// Execute runs a scoped program to completion and returns its output.
// A non-zero exit status is reported in Output.Code, not as an error.
func (s *Shell) Execute(name string, args []string) (Output, error) {
	entry, err := s.resolve(name, args)
	if err != nil {
		return Output{}, err
	}

	cmd := exec.Command(entry.Cmd, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return Output{}, fmt.Errorf("execute %s: %w", name, err)
		}
		out.Code = exitErr.ExitCode()
	}

	s.log.With(zap.String("program", name), zap.Int("code", out.Code)).Debug("executed")
	return out, nil
}

// Spawn starts a scoped program on a pseudo-terminal and returns its child id.
// A zero or negative size falls back to 80x24.
// Output is streamed as StdoutEvent+id events, termination as ExitEvent+id
// with the exit code.
func (s *Shell) Spawn(name string, args []string, cols, rows int) (string, error) {
	entry, err := s.resolve(name, args)
	if err != nil {
		return "", err
	}
	if cols > math.MaxUint16 || rows > math.MaxUint16 {
		return "", fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}

	proc, err := startPTY(cols, rows, entry.Cmd, args...)
	if err != nil {
		return "", fmt.Errorf("spawn %s: %w", name, err)
	}

	id := uuid.New().String()
	s.mu.Lock()
	s.children[id] = proc
	s.mu.Unlock()

	s.log.With(zap.String("program", name), zap.String("child", id)).Debug("spawned")
	go s.pump(id, proc)
	return id, nil
}

// pump streams output until the PTY closes, then reports the exit code.
func (s *Shell) pump(id string, proc *ptyProcess) {
	buf := make([]byte, 4096)
	for {
		n, err := proc.Read(buf)
		if n > 0 {
			s.emit(StdoutEvent+id, string(buf[:n]))
		}
		if err != nil {
			// EIO is how Linux reports the other side closing.
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) && !errors.Is(err, syscall.EIO) {
				s.log.With(zap.String("child", id), zap.Error(err)).Debug("pty read ended")
			}
			break
		}
	}

	code := proc.Wait()

	s.mu.Lock()
	delete(s.children, id)
	s.mu.Unlock()
	proc.file.Close()

	s.emit(ExitEvent+id, code)
}

func (s *Shell) child(id string) (*ptyProcess, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	proc, ok := s.children[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrChildNotFound, id)
	}
	return proc, nil
}

// Write sends data to a spawned child's terminal.
func (s *Shell) Write(id, data string) error {
	proc, err := s.child(id)
	if err != nil {
		return err
	}
	_, err = proc.Write([]byte(data))
	return err
}

// ErrInvalidSize is returned for terminal dimensions outside 1..65535.
var ErrInvalidSize = errors.New("invalid terminal size")

// Resize changes a spawned child's terminal size.
func (s *Shell) Resize(id string, cols, rows int) error {
	if cols < 1 || cols > math.MaxUint16 || rows < 1 || rows > math.MaxUint16 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, cols, rows)
	}
	proc, err := s.child(id)
	if err != nil {
		return err
	}
	return proc.Resize(uint16(cols), uint16(rows))
}

// Kill terminates a spawned child. Its exit event still fires.
func (s *Shell) Kill(id string) error {
	proc, err := s.child(id)
	if err != nil {
		return err
	}
	return proc.Close()
}

// Children lists running child ids.
func (s *Shell) Children() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.children))
	for id := range s.children {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Open opens an http, https or mailto link with the system browser.
func (s *Shell) Open(target string) error {
	if !s.allowOpen {
		return fmt.Errorf("%w: open is disabled", ErrNotAllowed)
	}
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotAllowed, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("%w: %q has no host", ErrNotAllowed, target)
		}
	case "mailto":
	default:
		return fmt.Errorf("%w: scheme %q", ErrNotAllowed, u.Scheme)
	}
	return s.openURL(target)
}

// closeAll kills every running child.
func (s *Shell) closeAll() {
	s.mu.Lock()
	procs := make([]*ptyProcess, 0, len(s.children))
	for _, p := range s.children {
		procs = append(procs, p)
	}
	s.mu.Unlock()

	for _, p := range procs {
		p.Close()
	}
}

// Plugin registers the shell capability with the desktop builder.
type Plugin struct {
	shell *Shell
	cfg   config.ShellConfig
}

// New creates the shell plugin.
func New(cfg config.ShellConfig) *Plugin {
	return &Plugin{cfg: cfg}
}

func (p *Plugin) Name() string { return "shell" }

func (p *Plugin) Init(app *desktop.App) error {
	p.shell = newShell(p.cfg, app.Logger().Named("shell"))
	p.shell.emit = app.Emit
	p.shell.openURL = app.OpenURL
	return nil
}

func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.shell != nil {
		p.shell.closeAll()
	}
	return nil
}

func (p *Plugin) Bind() interface{} {
	return p.shell
}
