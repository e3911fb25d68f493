package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfeifer.dev/roadlimit/settings"
)

func TestFloatFieldRoundTrip(t *testing.T) {
	s := settings.Settings{}
	s.Default()

	f, ok := fieldByTitle("Slowdown Start")
	require.True(t, ok)
	assert.Equal(t, "22", f.get(&s))

	require.NoError(t, f.set(&s, " 18.5 "))
	assert.Equal(t, 18.5, s.AutoNaviSpeedCtrlStart)
	assert.Equal(t, "18.5", f.get(&s))

	assert.Error(t, f.set(&s, "fast"))
	assert.Equal(t, 18.5, s.AutoNaviSpeedCtrlStart)
}

func TestLogLevelField(t *testing.T) {
	s := settings.Settings{}
	s.Default()
	f, ok := fieldByTitle("Log Level")
	require.True(t, ok)

	require.NoError(t, f.set(&s, "DEBUG"))
	assert.Equal(t, "debug", s.LogLevel)
	assert.Error(t, f.set(&s, "loud"))
	assert.Equal(t, "debug", s.LogLevel)
}

func TestBoolAndInterfaceFields(t *testing.T) {
	s := settings.Settings{}
	s.Default()

	metric, ok := fieldByTitle("Metric Units")
	require.True(t, ok)
	assert.Equal(t, Bool, metric.Type)
	require.NoError(t, metric.set(&s, "false"))
	assert.False(t, s.IsMetric)
	assert.Error(t, metric.set(&s, "kph"))

	iface, ok := fieldByTitle("Network Interface")
	require.True(t, ok)
	require.NoError(t, iface.set(&s, "eth0"))
	assert.Equal(t, "eth0", s.Interface)
	assert.Error(t, iface.set(&s, "  "))
}

func TestFieldByTitleUnknown(t *testing.T) {
	_, ok := fieldByTitle("Save")
	assert.False(t, ok)
}
