package shell

import (
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// ptyProcess wraps a program running on a pseudo-terminal.
type ptyProcess struct {
	cmd  *exec.Cmd
	file *os.File
	mu   sync.Mutex
}

// startPTY starts name on a new PTY with an initial size. Programs that query
// the terminal size at startup render nothing on a 0x0 terminal.
func startPTY(cols, rows int, name string, args ...string) (*ptyProcess, error) {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)

	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	})
	if err != nil {
		return nil, err
	}

	return &ptyProcess{
		cmd:  cmd,
		file: ptmx,
	}, nil
}

// Read reads from the PTY.
func (p *ptyProcess) Read(buf []byte) (int, error) {
	return p.file.Read(buf)
}

// Write writes to the PTY.
func (p *ptyProcess) Write(data []byte) (int, error) {
	return p.file.Write(data)
}

// Resize changes the PTY window size.
func (p *ptyProcess) Resize(cols, rows uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return pty.Setsize(p.file, &pty.Winsize{
		Cols: cols,
		Rows: rows,
	})
}

// Wait blocks until the program exits and returns its exit code.
// A program killed by a signal reports -1.
func (p *ptyProcess) Wait() int {
	_ = p.cmd.Wait()
	if p.cmd.ProcessState == nil {
		return -1
	}
	return p.cmd.ProcessState.ExitCode()
}

// Close terminates the program and closes the PTY.
func (p *ptyProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	return p.file.Close()
}
