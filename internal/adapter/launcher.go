package adapter

import (
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Launcher opens web links (instructor profiles, course images) outside
// the terminal
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments for the browser
	logger  *slog.Logger

	// start runs the command; replaced in tests
	start func(cmd *exec.Cmd) error
}

// NewLauncher creates a new Launcher
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: command,
		args:    args,
		logger:  logger,
		start:   func(cmd *exec.Cmd) error { return cmd.Start() },
	}
}

// Open launches link in the configured browser or the system default.
// Only http and https links are opened.
func (l *Launcher) Open(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not a web link", link)
	}

	name, args := l.command, append([]string{}, l.args...)
	if name == "" {
		name, args = defaultOpener(runtime.GOOS)
	} else if runtime.GOOS == "darwin" {
		name, args = macAppCommand(name, args)
	}
	args = append(args, u.String())

	l.logger.Info("opening link", "command", name, "url", u.String())
	return l.start(exec.Command(name, args...))
}

// defaultOpener returns the system handler for URLs on goos
func defaultOpener(goos string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", nil
	case "windows":
		return "cmd", []string{"/c", "start", ""}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", nil
	}
}

// macAppCommand launches GUI apps with 'open -a' when the command is not in PATH
func macAppCommand(command string, args []string) (string, []string) {
	if _, err := exec.LookPath(command); err == nil {
		return command, args
	}
	app := strings.TrimSuffix(filepath.Base(command), filepath.Ext(command))
	cmdArgs := []string{"-a", app}
	if len(args) > 0 {
		cmdArgs = append(cmdArgs, "--args")
		cmdArgs = append(cmdArgs, args...)
	}
	return "open", cmdArgs
}
