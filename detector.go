package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// AuditSubprocesses checks whether a benchmark process spawned children while
// running under valgrind instrumentation. The instrumentation runtime writes
// one <pid>.out file per instrumented process into the profile folder; a file
// whose pid is greater than the benchmark pid can only belong to a child, and
// that child ran without instrumentation since LD_PRELOAD injection only
// reaches the first process.
//
// Pid comparison is a heuristic: pids wrap and can be reused by unrelated
// processes, but within a single benchmark invocation the window is short
// enough for the signal to be reliable in practice.
//
// The audit is read-only, scanned entries are never touched.
func AuditSubprocesses(pid int) error {
	folder, ok := os.LookupEnv(EnvProfileFolder)
	if !ok || folder == "" {
		Logger.Debugf("%v is not set, skipping subprocess detection", EnvProfileFolder)
		return nil
	}

	entries, err := os.ReadDir(folder)
	if errors.Is(err, fs.ErrNotExist) {
		Logger.Debugf("profile folder %v does not exist, skipping subprocess detection", folder)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read profile folder %v: %w", folder, err)
	}

	for _, entry := range entries {
		stripped, ok := strings.CutSuffix(entry.Name(), ".out")
		if !ok {
			continue
		}
		subprocessPid, err := strconv.Atoi(stripped)
		if err != nil {
			continue
		}
		if subprocessPid > pid {
			return &SubprocessError{BenchmarkPid: pid, SubprocessPid: subprocessPid}
		}
	}
	return nil
}
