package main

import "fmt"

// SpawnError means the OS could not create the benchmark process at all.
type SpawnError struct {
	Command []string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn command %v: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ExitError means the benchmark process ran but exited with non-zero status.
type ExitError struct {
	Command []string
	Status  int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %v exited with non-zero status: %v", e.Command, e.Status)
}

// IncompatibleError means the static check predicts the target will not honor
// the preload injection, so it was never spawned.
type IncompatibleError struct {
	Path   string
	Reason string
}

func (e *IncompatibleError) Error() string {
	return fmt.Sprintf("executable %v is not compatible with preload instrumentation: %v", e.Path, e.Reason)
}

// SubprocessError means the profile folder holds evidence that the benchmark
// process spawned children which escaped instrumentation.
type SubprocessError struct {
	BenchmarkPid  int
	SubprocessPid int
}

func (e *SubprocessError) Error() string {
	return fmt.Sprintf("benchmark process %v spawned subprocess %v under valgrind instrumentation", e.BenchmarkPid, e.SubprocessPid)
}

// Remediation returns user guidance rendered only at the CLI boundary.
func (e *SubprocessError) Remediation() string {
	return "measuring processes that spawn other processes is not supported yet\n\n" +
		"Please either:\n" +
		"- run without instrumentation (walltime mode), or\n" +
		"- benchmark a process that does not create subprocesses"
}

// LocateError means the injection shared library could not be resolved.
type LocateError struct {
	Searched []string
	Platform string
}

func (e *LocateError) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("preload instrumentation is not supported on platform %v", e.Platform)
	}
	return fmt.Sprintf("preload library %v not found, searched: %v", PreloadLibName, e.Searched)
}
