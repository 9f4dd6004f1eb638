// Package desktop is thin OS-command glue for the notification, power,
// application-launch, browser and camera capabilities. Everything here
// shells out; none of it is exercised by unit tests.
package desktop

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// Notifier sends desktop notifications via the platform notifier tool.
type Notifier struct {
	log zerolog.Logger
}

func NewNotifier(log zerolog.Logger) *Notifier { return &Notifier{log: log} }

func (n *Notifier) Notify(message string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("notify-send", "Majordomo Reminder", message)
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title "Majordomo Reminder"`, message)
		cmd = exec.Command("osascript", "-e", script)
	case "windows":
		cmd = exec.Command("msg", "*", message)
	default:
		n.log.Warn().Str("os", runtime.GOOS).Msg("no notifier for platform")
		return
	}
	if err := cmd.Run(); err != nil {
		n.log.Warn().Err(err).Msg("notification delivery failed")
	}
}

// System performs host power actions.
type System struct{}

func NewSystem() *System { return &System{} }

func (s *System) Perform(kind string) error {
	cmds := map[string]map[string][]string{
		"sleep": {
			"windows": {"rundll32.exe", "powrprof.dll,SetSuspendState", "0,1,0"},
			"darwin":  {"pmset", "sleepnow"},
		},
		"restart": {
			"windows": {"shutdown", "/r", "/t", "0"},
		},
		"shutdown": {
			"windows": {"shutdown", "/s", "/t", "0"},
		},
		"lock": {
			"windows": {"rundll32.exe", "user32.dll,LockWorkStation"},
		},
	}
	byOS, ok := cmds[kind]
	if !ok {
		return fmt.Errorf("unknown system action %q", kind)
	}
	argv, ok := byOS[runtime.GOOS]
	if !ok {
		return fmt.Errorf("%s command not supported on %s", kind, runtime.GOOS)
	}
	return exec.Command(argv[0], argv[1:]...).Run()
}

// Launcher starts native applications.
type Launcher struct{}

func NewLauncher() *Launcher { return &Launcher{} }

func (l *Launcher) Launch(command string, args ...string) error {
	if command == "" {
		return fmt.Errorf("empty launch command")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", append([]string{"-a", command}, args...)...).Start()
	case "windows":
		// Commands like "start whatsapp" need the shell.
		full := strings.Join(append([]string{command}, args...), " ")
		return exec.Command("cmd", "/C", full).Start()
	default:
		return exec.Command(command, args...).Start()
	}
}

// Browser opens URLs in the default browser.
type Browser struct{}

func NewBrowser() *Browser { return &Browser{} }

func (b *Browser) OpenURL(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
