// Package state holds explicit per-process runtime state (camera
// session flag, bound address) that would otherwise live in ambient
// globals. A single *Process is constructed in main and passed by
// reference to the components that need it.
package state

import (
	"fmt"
	"sync"
)

// Process is the mutable process-wide state.
type Process struct {
	mu           sync.Mutex
	cameraActive bool
	host         string
	port         int
}

func New() *Process { return &Process{} }

// SetAddr records the host/port the HTTP server actually bound.
func (p *Process) SetAddr(host string, port int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.host = host
	p.port = port
}

// SelfURL reports the externally usable base URL, or "" before the
// server has bound.
func (p *Process) SelfURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.port == 0 {
		return ""
	}
	host := p.host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, p.port)
}

// StartCamera flips the camera flag on; it returns false when a
// session was already active.
func (p *Process) StartCamera() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cameraActive {
		return false
	}
	p.cameraActive = true
	return true
}

// StopCamera flips the camera flag off; it returns false when no
// session was active.
func (p *Process) StopCamera() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.cameraActive {
		return false
	}
	p.cameraActive = false
	return true
}
