package main

import "time"

// Instrument is the external measurement capability. It is constructed once
// per run and used strictly sequentially across all benchmark commands.
type Instrument interface {
	StartBenchmark() error
	StopBenchmark() error
	SetExecutedBenchmark(uri string) error
}

type ExecutionRecord struct {
	Name     string
	Uri      string
	Mode     string
	Duration time.Duration
}

// Recorder persists executed benchmarks. Optional: a nil Recorder disables
// result recording.
type Recorder interface {
	RecordExecution(record ExecutionRecord) error
}
