package main

import (
	"fmt"
	"os"
)

// CtlInstrument drives the measurement runtime through its control fifo.
// Commands are single lines; the runtime on the other side of the fifo
// interprets them. Usage is strictly sequential, no locking needed.
type CtlInstrument struct {
	Path string
}

// NopInstrument is used when no control fifo is configured: benchmarks run
// without measurement but the harness behaves identically otherwise.
type NopInstrument struct{}

func (NopInstrument) StartBenchmark() error { return nil }

func (NopInstrument) StopBenchmark() error { return nil }

func (NopInstrument) SetExecutedBenchmark(uri string) error { return nil }

// NewInstrument picks the hooks implementation from the environment.
func NewInstrument() Instrument {
	path, ok := os.LookupEnv(EnvCtlFifo)
	if !ok || path == "" {
		Logger.Debugf("%v is not set, measurement hooks disabled", EnvCtlFifo)
		return NopInstrument{}
	}
	return &CtlInstrument{Path: path}
}

func (c *CtlInstrument) send(command string) error {
	file, err := os.OpenFile(c.Path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open control fifo %v: %w", c.Path, err)
	}
	defer file.Close()
	if _, err := fmt.Fprintf(file, "%v %v\n", IntegrationName, command); err != nil {
		return fmt.Errorf("failed to write to control fifo %v: %w", c.Path, err)
	}
	return nil
}

func (c *CtlInstrument) StartBenchmark() error { return c.send("start") }

func (c *CtlInstrument) StopBenchmark() error { return c.send("stop") }

func (c *CtlInstrument) SetExecutedBenchmark(uri string) error {
	return c.send("executed " + uri)
}
