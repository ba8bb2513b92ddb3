package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCtlInstrumentWritesCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl")
	hooks := &CtlInstrument{Path: path}

	require.Nil(t, hooks.StartBenchmark())
	require.Nil(t, hooks.StopBenchmark())
	require.Nil(t, hooks.SetExecutedBenchmark("fib::abcd1234"))

	data, err := os.ReadFile(path)
	require.Nil(t, err)
	require.Equal(t, "vgbench start\nvgbench stop\nvgbench executed fib::abcd1234\n", string(data))
}

func TestNewInstrumentWithoutFifo(t *testing.T) {
	t.Setenv(EnvCtlFifo, "")
	require.Equal(t, NopInstrument{}, NewInstrument())
}

func TestNewInstrumentWithFifo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl")
	t.Setenv(EnvCtlFifo, path)
	require.Equal(t, &CtlInstrument{Path: path}, NewInstrument())
}
