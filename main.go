package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	instrument := flag.Bool("instrument", false, "inject valgrind instrumentation into benchmark processes via LD_PRELOAD")
	configPath := flag.String("config", "", "path to a JSON file with benchmark commands")
	name := flag.String("name", "", "benchmark name for a single command given after the flags")
	flag.Parse()

	commands, err := resolveCommands(*configPath, *name, flag.Args())
	if err != nil {
		Logger.Fatalf("failed to load benchmark commands: %v", err)
	}
	if len(commands) == 0 {
		Logger.Fatalf("no benchmark commands given, pass -config <file> or a command after the flags")
	}

	Logger.Infof("start benchmark run with %v commands", len(commands))
	info := HostStat()
	Logger.Infof("host stat: %+v", info)

	executor := &Executor{Hooks: NewInstrument()}

	dbName := StringEnv("VGBENCH_DB_NAME", "")
	if dbName != "" {
		storage, err := NewStorage(dbName, StringEnv("VGBENCH_ORG_NAME", ""), StringEnv("VGBENCH_AUTH_TOKEN", ""))
		if err != nil {
			Logger.Fatalf("failed to open results storage: %v", err)
		}
		defer storage.Close()
		if err := storage.InitRun(info); err != nil {
			Logger.Fatalf("failed to initialize results storage: %v", err)
		}
		executor.Recorder = storage
	}

	if *instrument {
		libPath, err := LocatePreloadLib()
		if err != nil {
			Logger.Fatalf("failed to locate preload library: %v", err)
		}
		Logger.Infof("using preload library %v", libPath)
		executor.PreloadLib = libPath
		failOnError(executor.PerformWithValgrind(commands))
	} else {
		failOnError(executor.Perform(commands))
	}

	Logger.Infof("benchmark run finished")
}

func resolveCommands(configPath string, name string, args []string) ([]BenchmarkCommand, error) {
	if configPath != "" {
		if len(args) != 0 {
			return nil, fmt.Errorf("pass either -config or a single command, not both")
		}
		return LoadCommands(configPath)
	}
	if len(args) == 0 {
		return nil, nil
	}
	return []BenchmarkCommand{{Name: name, Command: args}}, nil
}

// failOnError terminates the run on the first failure. Remediation guidance
// is rendered here, at the boundary, the errors themselves stay structured.
func failOnError(err error) {
	if err == nil {
		return
	}
	var subprocessErr *SubprocessError
	if errors.As(err, &subprocessErr) {
		fmt.Fprintln(os.Stderr, subprocessErr.Remediation())
	}
	Logger.Fatalf("benchmark run failed: %v", err)
}
