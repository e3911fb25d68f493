package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTempParams(t *testing.T) {
	t.Helper()
	old := ParamsPath
	ParamsPath = filepath.Join(t.TempDir(), "params", "d")
	t.Cleanup(func() { ParamsPath = old })
	EnsureParamDirectories()
}

func TestPutGetParam(t *testing.T) {
	useTempParams(t)

	require.NoError(t, PutParam(ROAD_LIMIT_SETTINGS, []byte(`{"is_metric":true}`)))

	data, err := GetParam(ROAD_LIMIT_SETTINGS)
	require.NoError(t, err)
	assert.Equal(t, `{"is_metric":true}`, string(data))

	names, err := GetParams()
	require.NoError(t, err)
	assert.Equal(t, []string{ROAD_LIMIT_SETTINGS}, names)

	_, err = os.Stat(filepath.Join(filepath.Dir(ParamsPath), ".lock"))
	assert.True(t, os.IsNotExist(err), "lock file should be removed after write")
}

func TestRemoveParam(t *testing.T) {
	useTempParams(t)

	require.NoError(t, PutParam("RoadLimitScratch", []byte("x")))
	require.NoError(t, RemoveParam("RoadLimitScratch"))

	exists, err := Exists(ParamPath("RoadLimitScratch"))
	require.NoError(t, err)
	assert.False(t, exists)

	// removing a missing param is not an error
	assert.NoError(t, RemoveParam("RoadLimitScratch"))
}

func TestGetParamMissing(t *testing.T) {
	useTempParams(t)

	_, err := GetParam("Nope")
	assert.Error(t, err)
}
