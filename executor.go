package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Executor runs benchmark commands strictly sequentially, one child process
// at a time. Parallel execution would corrupt measurement attribution.
type Executor struct {
	Hooks      Instrument
	Recorder   Recorder
	PreloadLib string
	// CheckTarget overrides the static compatibility check.
	// Nil means CheckPreloadCompatible.
	CheckTarget func(path string) error
}

// Perform runs the commands without instrumentation injection, driving the
// measurement hooks around each child process.
func (e *Executor) Perform(commands []BenchmarkCommand) error {
	for _, benchmark := range commands {
		nameAndUri := GenerateNameAndUri(benchmark.Name, benchmark.Command)
		nameAndUri.LogExecuting()

		cmd := exec.Command(benchmark.Command[0], benchmark.Command[1:]...)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr

		if err := e.Hooks.StartBenchmark(); err != nil {
			return fmt.Errorf("failed to start measurement: %w", err)
		}
		start := time.Now()
		runErr := cmd.Run()
		elapsed := time.Since(start)
		if err := e.Hooks.StopBenchmark(); err != nil {
			return fmt.Errorf("failed to stop measurement: %w", err)
		}

		if err := classifyRun(benchmark.Command, runErr); err != nil {
			return err
		}
		if err := e.Hooks.SetExecutedBenchmark(nameAndUri.Uri); err != nil {
			return fmt.Errorf("failed to report executed benchmark %v: %w", nameAndUri.Uri, err)
		}
		if err := e.record(nameAndUri, "plain", elapsed); err != nil {
			return err
		}
	}
	return nil
}

// PerformWithValgrind runs the commands with the instrumentation library
// injected through LD_PRELOAD. Only dynamically linked targets that use the
// standard loader are spawned; after each child exits the profile folder is
// audited for subprocesses that escaped instrumentation.
func (e *Executor) PerformWithValgrind(commands []BenchmarkCommand) error {
	for _, benchmark := range commands {
		if err := e.checkTarget(benchmark.Command[0]); err != nil {
			return err
		}

		nameAndUri := GenerateNameAndUri(benchmark.Name, benchmark.Command)
		nameAndUri.LogExecuting()

		cmd := exec.Command(benchmark.Command[0], benchmark.Command[1:]...)
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
		cmd.Env = withPreloadEnv(os.Environ(), e.PreloadLib, nameAndUri.Uri)

		start := time.Now()
		if err := cmd.Start(); err != nil {
			return &SpawnError{Command: benchmark.Command, Err: err}
		}
		waitErr := cmd.Wait()
		elapsed := time.Since(start)

		if err := AuditSubprocesses(cmd.Process.Pid); err != nil {
			return err
		}
		if err := classifyRun(benchmark.Command, waitErr); err != nil {
			return err
		}
		if err := e.record(nameAndUri, "valgrind", elapsed); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) checkTarget(path string) error {
	if e.CheckTarget != nil {
		return e.CheckTarget(path)
	}
	return CheckPreloadCompatible(path)
}

// record notifies the optional Recorder. Only successful executions reach
// this point, failures abort the run before recording.
func (e *Executor) record(nameAndUri NameAndUri, mode string, elapsed time.Duration) error {
	if e.Recorder == nil {
		return nil
	}
	record := ExecutionRecord{
		Name:     nameAndUri.Name,
		Uri:      nameAndUri.Uri,
		Mode:     mode,
		Duration: elapsed,
	}
	if err := e.Recorder.RecordExecution(record); err != nil {
		return fmt.Errorf("failed to record execution of %v: %w", nameAndUri.Uri, err)
	}
	return nil
}

func classifyRun(command []string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: command, Status: exitErr.ExitCode()}
	}
	return &SpawnError{Command: command, Err: err}
}

// withPreloadEnv splices the injection variables into a child environment.
// An already present LD_PRELOAD keeps its libraries, ours is loaded first.
func withPreloadEnv(env []string, libPath string, uri string) []string {
	env = setEnvEntry(env, EnvPythonPerfSupport, "1")
	env = setEnvEntry(env, EnvBenchmarkUri, uri)

	prefix := EnvPreload + "="
	for i, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			current := strings.TrimPrefix(entry, prefix)
			if current == "" {
				env[i] = prefix + libPath
			} else {
				env[i] = prefix + libPath + ":" + current
			}
			return env
		}
	}
	return append(env, prefix+libPath)
}

func setEnvEntry(env []string, key string, value string) []string {
	prefix := key + "="
	for i, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
