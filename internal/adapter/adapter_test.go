package adapter

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/campus/internal/domain"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), t.TempDir())

	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 9, cfg.UI.PageSize)
	assert.Equal(t, "title-asc", cfg.UI.DefaultSort)
	assert.False(t, cfg.IsConfigured())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := "api:\n  url: http://file.local\n  timeout: 5s\nui:\n  page_size: 12\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))
	t.Setenv("CAMPUS_API_URL", "http://env.local")
	t.Setenv("CAMPUS_LOGGING_LEVEL", "debug")

	cfg, err := loadConfig(viper.New(), dir)

	require.NoError(t, err)
	assert.Equal(t, "http://env.local", cfg.API.URL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 12, cfg.UI.PageSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.IsConfigured())
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.API.URL = "http://saved.local"
	cfg.Storage.TokenFile = ""

	require.NoError(t, saveConfig(viper.New(), cfg, filepath.Join(dir, "config.yaml")))
	loaded, err := loadConfig(viper.New(), dir)

	require.NoError(t, err)
	assert.Equal(t, "http://saved.local", loaded.API.URL)
	assert.Equal(t, 30*time.Second, loaded.API.Timeout)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("nonsense"))
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "campus.log")

	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "INFO"})
	require.NoError(t, err)
	logger.Info("hello", "courseID", 1)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"courseID":1`)
}

func TestLauncher_Open(t *testing.T) {
	var got *exec.Cmd
	l := NewLauncher("firefox-test-browser", []string{"--new-tab"}, NullLogger())
	l.start = func(cmd *exec.Cmd) error {
		got = cmd
		return nil
	}

	require.NoError(t, l.Open("https://github.com/rob"))
	require.NotNil(t, got)
	assert.Equal(t, "https://github.com/rob", got.Args[len(got.Args)-1])

	assert.Error(t, l.Open("file:///etc/passwd"))
	assert.Error(t, l.Open("not a url"))
}

func TestDefaultOpener(t *testing.T) {
	name, _ := defaultOpener("linux")
	assert.Equal(t, "xdg-open", name)
	name, args := defaultOpener("windows")
	assert.Equal(t, "cmd", name)
	assert.Equal(t, []string{"/c", "start", ""}, args)
}

type recorder struct{ got []domain.Notification }

func (r *recorder) Notify(n domain.Notification) { r.got = append(r.got, n) }

func TestFanoutNotifier(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	fan := FanoutNotifier{a, b, NewLogNotifier(NullLogger())}

	fan.Notify(domain.Notification{Level: domain.LevelError, Message: "Access denied"})

	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)
}
