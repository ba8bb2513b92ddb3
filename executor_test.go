package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeInstrument struct {
	calls []string
}

func (f *fakeInstrument) StartBenchmark() error { f.calls = append(f.calls, "start"); return nil }

func (f *fakeInstrument) StopBenchmark() error { f.calls = append(f.calls, "stop"); return nil }
func (f *fakeInstrument) SetExecutedBenchmark(uri string) error {
	f.calls = append(f.calls, "executed "+uri)
	return nil
}

type fakeRecorder struct {
	records []ExecutionRecord
}

func (f *fakeRecorder) RecordExecution(record ExecutionRecord) error {
	f.records = append(f.records, record)
	return nil
}

func touchCommand(name string, path string) BenchmarkCommand {
	return BenchmarkCommand{Name: name, Command: []string{"sh", "-c", "touch " + path}}
}

func TestPerformRunsCommandsInOrder(t *testing.T) {
	dir := t.TempDir()
	first, second := filepath.Join(dir, "first"), filepath.Join(dir, "second")
	hooks, recorder := &fakeInstrument{}, &fakeRecorder{}
	executor := &Executor{Hooks: hooks, Recorder: recorder}

	commands := []BenchmarkCommand{touchCommand("first", first), touchCommand("second", second)}
	require.Nil(t, executor.Perform(commands))

	require.FileExists(t, first)
	require.FileExists(t, second)

	firstUri := GenerateNameAndUri("first", commands[0].Command).Uri
	secondUri := GenerateNameAndUri("second", commands[1].Command).Uri
	require.Equal(t, []string{
		"start", "stop", "executed " + firstUri,
		"start", "stop", "executed " + secondUri,
	}, hooks.calls)

	require.Len(t, recorder.records, 2)
	require.Equal(t, "first", recorder.records[0].Name)
	require.Equal(t, "plain", recorder.records[0].Mode)
	require.Equal(t, firstUri, recorder.records[0].Uri)
}

func TestPerformStopsAfterFailure(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "marker")
	hooks := &fakeInstrument{}
	executor := &Executor{Hooks: hooks}

	err := executor.Perform([]BenchmarkCommand{
		{Name: "failing", Command: []string{"sh", "-c", "exit 3"}},
		touchCommand("after", marker),
	})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.Status)

	require.NoFileExists(t, marker)
	require.Equal(t, []string{"start", "stop"}, hooks.calls)
}

func TestPerformSpawnFailure(t *testing.T) {
	executor := &Executor{Hooks: &fakeInstrument{}}
	err := executor.Perform([]BenchmarkCommand{
		{Name: "missing", Command: []string{filepath.Join(t.TempDir(), "missing-binary")}},
	})

	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
}

func TestPerformWithValgrindSetsChildEnv(t *testing.T) {
	t.Setenv(EnvProfileFolder, "")
	out := filepath.Join(t.TempDir(), "env.out")
	command := BenchmarkCommand{
		Name: "env-probe",
		Command: []string{
			"sh", "-c",
			"printenv " + EnvPreload + " " + EnvPythonPerfSupport + " " + EnvBenchmarkUri + " > " + out,
		},
	}

	executor := &Executor{
		Hooks:       &fakeInstrument{},
		PreloadLib:  "/opt/vgbench/libvgbench-hooks.so",
		CheckTarget: func(path string) error { return nil },
	}
	require.Nil(t, executor.PerformWithValgrind([]BenchmarkCommand{command}))

	data, err := os.ReadFile(out)
	require.Nil(t, err)

	uri := GenerateNameAndUri("env-probe", command.Command).Uri
	require.Equal(t, []string{"/opt/vgbench/libvgbench-hooks.so", "1", uri}, strings.Fields(string(data)))
}

func TestPerformWithValgrindIncompatibleNeverSpawns(t *testing.T) {
	t.Setenv(EnvProfileFolder, "")
	marker := filepath.Join(t.TempDir(), "marker")

	executor := &Executor{
		Hooks:      &fakeInstrument{},
		PreloadLib: "/opt/vgbench/libvgbench-hooks.so",
		CheckTarget: func(path string) error {
			return &IncompatibleError{Path: path, Reason: "statically linked"}
		},
	}
	err := executor.PerformWithValgrind([]BenchmarkCommand{touchCommand("static", marker)})

	var incompatibleErr *IncompatibleError
	require.ErrorAs(t, err, &incompatibleErr)
	require.NoFileExists(t, marker)
}

func TestPerformWithValgrindDetectsSubprocess(t *testing.T) {
	folder := t.TempDir()
	// A pid far above any real pid of the spawned child.
	writeProfileEntry(t, folder, "1073741824.out")
	t.Setenv(EnvProfileFolder, folder)

	executor := &Executor{
		Hooks:       &fakeInstrument{},
		PreloadLib:  "/opt/vgbench/libvgbench-hooks.so",
		CheckTarget: func(path string) error { return nil },
	}
	err := executor.PerformWithValgrind([]BenchmarkCommand{
		{Name: "spawner", Command: []string{"sh", "-c", "exit 0"}},
	})

	var subprocessErr *SubprocessError
	require.ErrorAs(t, err, &subprocessErr)
	require.Equal(t, 1073741824, subprocessErr.SubprocessPid)
}

func TestWithPreloadEnv(t *testing.T) {
	env := withPreloadEnv([]string{"PATH=/bin"}, "/lib/hooks.so", "bench::abcd1234")
	require.Contains(t, env, EnvPreload+"=/lib/hooks.so")
	require.Contains(t, env, EnvPythonPerfSupport+"=1")
	require.Contains(t, env, EnvBenchmarkUri+"=bench::abcd1234")
}

func TestWithPreloadEnvPrependsToExisting(t *testing.T) {
	env := withPreloadEnv([]string{EnvPreload + "=/lib/other.so"}, "/lib/hooks.so", "u")
	require.Contains(t, env, EnvPreload+"=/lib/hooks.so:/lib/other.so")
}

func TestWithPreloadEnvReplacesEmpty(t *testing.T) {
	env := withPreloadEnv([]string{EnvPreload + "="}, "/lib/hooks.so", "u")
	require.Contains(t, env, EnvPreload+"=/lib/hooks.so")
}
