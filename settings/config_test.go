package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roadlimit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, RECEIVE_PORT, cfg.Network.ReceivePort)
	assert.Equal(t, FALLBACK_PORT, cfg.Network.FallbackPort)
	assert.Equal(t, LOOP_DELAY, cfg.Timing.PublishPeriod)
	assert.Equal(t, STALE_AFTER, cfg.Timing.StaleAfter)
	assert.Equal(t, ADVISORY_TOPIC, cfg.Bus.AdvisoryTopic)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
network:
  interface: eth0
  receive_port: 9843
timing:
  publish_period: 50ms
  stale_after: 3s
bus:
  advisory_topic: testAdvisory
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "eth0", cfg.Network.Interface)
	assert.Equal(t, 9843, cfg.Network.ReceivePort)
	assert.Equal(t, FALLBACK_PORT, cfg.Network.FallbackPort)
	assert.Equal(t, 50*time.Millisecond, cfg.Timing.PublishPeriod)
	assert.Equal(t, 3*time.Second, cfg.Timing.StaleAfter)
	assert.Equal(t, "testAdvisory", cfg.Bus.AdvisoryTopic)
	assert.Equal(t, VEHICLE_TOPIC, cfg.Bus.VehicleTopic)
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	path := writeConfig(t, "network:\n  broadcast_port: 70000\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network.broadcast_port")
}

func TestLoadConfigRejectsNegativePeriod(t *testing.T) {
	path := writeConfig(t, "timing:\n  gps_period: -1s\n")
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timing.gps_period")
}

func TestLoadConfigBadYaml(t *testing.T) {
	path := writeConfig(t, "network: [")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
