package gpu_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jnkdev/vkprog/gpu"
	"github.com/jnkdev/vkprog/logs"
)

func newTestLogger() (logs.Logger, *test.Hook) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	return logs.Wrap(l, true), hook
}

func TestDebugChannel(t *testing.T) {
	logger, hook := newTestLogger()
	ch := gpu.DebugChannel{Logger: logger}

	cases := []struct {
		sev   gpu.DebugSeverity
		level logrus.Level
	}{
		{gpu.DebugError, logrus.ErrorLevel},
		{gpu.DebugWarning, logrus.WarnLevel},
		{gpu.DebugInfo, logrus.InfoLevel},
		{gpu.DebugVerbose, logrus.DebugLevel},
		{0, logrus.DebugLevel},
	}
	for _, c := range cases {
		hook.Reset()
		assert.False(t, ch.Handle(c.sev, gpu.DebugValidation, "vkCreateDevice: bad"))
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, c.level, entry.Level)
		assert.Equal(t, "vkCreateDevice: bad", entry.Message)
		assert.Equal(t, gpu.LayerTag, entry.Data["tag"])
	}
}

func TestDebugChannelWithoutLogger(t *testing.T) {
	assert.False(t, gpu.DebugChannel{}.Handle(gpu.DebugError, gpu.DebugGeneral, "lost"))
}
