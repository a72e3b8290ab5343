package xconf_test

import (
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/omeyang/xmeasure/pkg/config/xconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeFile(t, "measure.yaml", sampleYAML)
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	var reloads atomic.Int32
	w, err := xconf.Watch(cfg, func(_ xconf.Config, err error) {
		if err == nil {
			reloads.Add(1)
		}
	}, xconf.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, w.Stop()) })

	require.NoError(t, os.WriteFile(path, []byte("measure:\n  localization: spanish\n"), 0o600))

	assert.Eventually(t, func() bool {
		return reloads.Load() >= 1 && cfg.Client().String("measure.localization") == "spanish"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatch_Errors(t *testing.T) {
	t.Parallel()

	_, err := xconf.Watch(nil, nil)
	assert.ErrorIs(t, err, xconf.ErrNotFileBacked)

	cfg, err := xconf.NewFromBytes([]byte("a: 1"), xconf.FormatYAML)
	require.NoError(t, err)
	_, err = xconf.Watch(cfg, nil)
	assert.ErrorIs(t, err, xconf.ErrNotFileBacked)
}

func TestWatch_StopIdempotent(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "measure.yaml", sampleYAML)
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	w, err := xconf.Watch(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
