package evconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	var dir = t.TempDir()
	var yamlPath = filepath.Join(dir, "evrt.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("kept_executor_count: 1\n"), 0o644))

	var reloaded = make(chan *Config, 1)
	var w, err = NewWatcher("", yamlPath, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(yamlPath, []byte("kept_executor_count: 5\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 5, cfg.KeptExecutorCount)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not observe the file write")
	}
}
