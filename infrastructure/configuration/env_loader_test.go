package configuration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEnvFromFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	content := "# comment line\n\nTEST_LOADER_KEY=from_file\nTEST_LOADER_QUOTED=\"quoted value\"\nTEST_LOADER_EXISTING=from_file\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Setenv("TEST_LOADER_EXISTING", "from_env")
	os.Unsetenv("TEST_LOADER_KEY")
	os.Unsetenv("TEST_LOADER_QUOTED")
	t.Cleanup(func() {
		os.Unsetenv("TEST_LOADER_KEY")
		os.Unsetenv("TEST_LOADER_QUOTED")
	})

	LoadEnvFromFile(envFile, filepath.Join(dir, "missing.env"))

	require.Equal(t, "from_file", os.Getenv("TEST_LOADER_KEY"))
	require.Equal(t, "quoted value", os.Getenv("TEST_LOADER_QUOTED"))
	// OS environment keeps precedence over file values
	require.Equal(t, "from_env", os.Getenv("TEST_LOADER_EXISTING"))
}

func TestSplitEnvLine(t *testing.T) {
	cases := []struct {
		line string
		key  string
		val  string
		ok   bool
	}{
		{"KEY=value", "KEY", "value", true},
		{"  KEY = spaced  ", "KEY", "spaced", true},
		{`KEY="quoted"`, "KEY", "quoted", true},
		{"KEY='single'", "KEY", "single", true},
		{"KEY=", "KEY", "", true},
		{"# comment", "", "", false},
		{"", "", "", false},
		{"no equals sign", "", "", false},
		{"=orphan", "", "", false},
	}
	for _, c := range cases {
		key, val, ok := splitEnvLine(c.line)
		require.Equal(t, c.ok, ok, c.line)
		require.Equal(t, c.key, key, c.line)
		require.Equal(t, c.val, val, c.line)
	}
}

func TestSchedulerDefaults(t *testing.T) {
	var cfg Config
	initScheduler(&cfg)

	require.Equal(t, 60, cfg.Scheduler.DispatchIntervalSeconds)
	require.Equal(t, 24, cfg.Scheduler.RefreshIntervalHours)
	require.Equal(t, 30, cfg.Scheduler.RefreshThresholdDays)
	require.Equal(t, 3, cfg.Scheduler.MaxRetries)
	require.Equal(t, 5, cfg.Scheduler.RetryDelayMinutes)
	require.Equal(t, 4, cfg.Scheduler.WorkerLimit)
}
