package desktop

import (
	"os/exec"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
)

// Camera runs the platform camera viewer as a child process. Stop
// kills the viewer; a viewer closed by the user is discovered lazily
// on the next Stop.
type Camera struct {
	log zerolog.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

func NewCamera(log zerolog.Logger) *Camera { return &Camera{log: log} }

func (c *Camera) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("cheese")
	case "darwin":
		cmd = exec.Command("open", "-a", "Photo Booth")
	case "windows":
		cmd = exec.Command("cmd", "/C", "start", "microsoft.windows.camera:")
	default:
		cmd = exec.Command("cheese")
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	c.cmd = cmd
	return nil
}

func (c *Camera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cmd == nil || c.cmd.Process == nil {
		return nil
	}
	if err := c.cmd.Process.Kill(); err != nil {
		c.log.Warn().Err(err).Msg("camera process kill failed")
	}
	c.cmd = nil
	return nil
}
