package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/alfred/core/factory"
)

func TestNewSink(t *testing.T) {
	require.NoError(t, RegisterSink("test-record", func(map[string]any) (Sink, error) {
		return &recordSink{}, nil
	}))
	assert.Contains(t, SinkTypes(), "test-record")

	s, err := NewSink(nil)
	require.NoError(t, err)
	assert.IsType(t, NopSink{}, s)

	s, err = NewSink([]factory.ModuleConfig{{Type: "test-record"}})
	require.NoError(t, err)
	assert.IsType(t, &recordSink{}, s)

	s, err = NewSink([]factory.ModuleConfig{{Type: "test-record"}, {Type: "test-record"}})
	require.NoError(t, err)
	multi, ok := s.(*MultiSink)
	require.True(t, ok)
	assert.Len(t, multi.Sinks, 2)

	_, err = NewSink([]factory.ModuleConfig{{Type: "test-record"}, {Type: "missing"}})
	assert.Error(t, err)
}
