package desktop

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
)

// Audio adjusts the master output volume through the platform mixer.
type Audio struct{}

func NewAudio() *Audio { return &Audio{} }

func (a *Audio) SetVolume(percent int) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("amixer", "-D", "pulse", "sset", "Master", strconv.Itoa(percent)+"%").Run()
	case "darwin":
		script := fmt.Sprintf("set volume output volume %d", percent)
		return exec.Command("osascript", "-e", script).Run()
	case "windows":
		// nircmd takes volume on a 0-65535 scale.
		return exec.Command("nircmd", "setsysvolume", strconv.Itoa(percent*65535/100)).Run()
	default:
		return fmt.Errorf("volume control not supported on %s", runtime.GOOS)
	}
}

// Display adjusts screen brightness.
type Display struct{}

func NewDisplay() *Display { return &Display{} }

func (d *Display) SetBrightness(percent int) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("brightnessctl", "set", strconv.Itoa(percent)+"%").Run()
	case "darwin":
		return exec.Command("brightness", fmt.Sprintf("%.2f", float64(percent)/100)).Run()
	case "windows":
		ps := fmt.Sprintf("(Get-WmiObject -Namespace root/WMI -Class WmiMonitorBrightnessMethods).WmiSetBrightness(1,%d)", percent)
		return exec.Command("powershell", "-Command", ps).Run()
	default:
		return fmt.Errorf("brightness control not supported on %s", runtime.GOOS)
	}
}
