package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

const (
	IntegrationName    = "vgbench"
	IntegrationVersion = "0.2.0"

	// Name of the shared library injected into benchmark processes.
	PreloadLibName = "libvgbench-hooks.so"

	EnvPreload           = "LD_PRELOAD"
	EnvPythonPerfSupport = "PYTHONPERFSUPPORT"
	EnvBenchmarkUri      = "VGBENCH_BENCHMARK_URI"
	EnvProfileFolder     = "VGBENCH_PROFILE_FOLDER"
	EnvCtlFifo           = "VGBENCH_CTL_FIFO"
)

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

// LoadCommands reads a JSON file with a list of benchmark commands:
// [{"name": "fib", "command": ["./fib", "30"]}, ...]
func LoadCommands(path string) ([]BenchmarkCommand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read commands file %v: %w", path, err)
	}
	var commands []BenchmarkCommand
	if err := json.Unmarshal(data, &commands); err != nil {
		return nil, fmt.Errorf("failed to parse commands file %v: %w", path, err)
	}
	for i, command := range commands {
		if len(command.Command) == 0 {
			return nil, fmt.Errorf("command #%v (%v) has empty argv", i, command.Name)
		}
	}
	return commands, nil
}
