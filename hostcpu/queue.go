// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu

import (
	"fmt"
	"sync"

	"github.com/gviegas/gpucore/gpu"
)

// job is one unit of work submitted to a queue's FIFO.
type job struct {
	fn      func() error
	handler gpu.CompletionHandler
	wait    []gpu.Fence
	signal  []gpu.Fence
	done    chan error // non-nil only for blocking submissions
}

// queue runs a single goroutine draining jobs in submission order,
// matching the "FIFO execution stream bound to exactly one device"
// contract of spec §3, §5.
type queue struct {
	label string
	dev   *gpu.Device
	typ   gpu.QueueType

	mu      sync.Mutex
	jobs    chan job
	closeCh chan struct{}
	wg      sync.WaitGroup
}

func newQueue(dev *gpu.Device, typ gpu.QueueType) *queue {
	q := &queue{
		dev:     dev,
		typ:     typ,
		jobs:    make(chan job, 64),
		closeCh: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

func (q *queue) run() {
	defer q.wg.Done()
	for {
		select {
		case j, ok := <-q.jobs:
			if !ok {
				return
			}
			q.runJob(j)
		case <-q.closeCh:
			// Drain remaining jobs before exiting so Finish
			// observes a consistent completion order.
			for {
				select {
				case j, ok := <-q.jobs:
					if !ok {
						return
					}
					q.runJob(j)
				default:
					return
				}
			}
		}
	}
}

func (q *queue) runJob(j job) {
	for _, f := range j.wait {
		f.Wait()
		if bf, ok := f.(*fence); ok {
			bf.MarkWaited()
		}
	}
	err := j.fn()
	for _, f := range j.signal {
		if bf, ok := f.(*fence); ok {
			bf.Signal()
		}
	}
	if j.done != nil {
		j.done <- err
	}
	if j.handler != nil {
		j.handler(err)
	}
}

func (q *queue) Label() string     { q.mu.Lock(); defer q.mu.Unlock(); return q.label }
func (q *queue) SetLabel(l string) { q.mu.Lock(); defer q.mu.Unlock(); q.label = l }
func (q *queue) Device() *gpu.Device { return q.dev }
func (q *queue) Type() gpu.QueueType { return q.typ }

// Finish blocks until the FIFO has drained every job submitted before
// this call returns.
func (q *queue) Finish() error {
	done := make(chan error, 1)
	q.jobs <- job{fn: func() error { return nil }, done: done}
	return <-done
}

// Flush is a no-op beyond accepting already-queued work: the host-cpu
// backend has no separate batching step to force.
func (q *queue) Flush() error { return nil }

func (q *queue) Execute(fn *gpu.FunctionEntry, global, local [3]uint32, args []gpu.Arg) error {
	return q.ExecuteWithParameters(&gpu.LaunchParams{Function: fn, Global: global, Local: local, Args: args, Blocking: true})
}

func (q *queue) ExecuteWithHandler(fn *gpu.FunctionEntry, global, local [3]uint32, args []gpu.Arg, handler gpu.CompletionHandler) error {
	p := &gpu.LaunchParams{Function: fn, Global: global, Local: local, Args: args}
	return q.executeWithParams(p, handler)
}

func (q *queue) ExecuteCooperative(fn *gpu.FunctionEntry, global, local [3]uint32, args []gpu.Arg) error {
	return q.ExecuteWithParameters(&gpu.LaunchParams{Function: fn, Global: global, Local: local, Args: args, Cooperative: true, Blocking: true})
}

func (q *queue) ExecuteCooperativeWithHandler(fn *gpu.FunctionEntry, global, local [3]uint32, args []gpu.Arg, handler gpu.CompletionHandler) error {
	p := &gpu.LaunchParams{Function: fn, Global: global, Local: local, Args: args, Cooperative: true}
	return q.executeWithParams(p, handler)
}

// ExecuteWithParameters is the single choke point every other Execute*
// variant forwards through (spec §6).
func (q *queue) ExecuteWithParameters(p *gpu.LaunchParams) error {
	return q.executeWithParams(p, nil)
}

func (q *queue) executeWithParams(p *gpu.LaunchParams, handler gpu.CompletionHandler) error {
	if p.Function == nil {
		return fmt.Errorf("%w: ExecuteWithParameters requires a function", gpu.ErrInvalidArgument)
	}
	if p.Cooperative && !q.dev.CooperativeKernelSupport {
		return fmt.Errorf("%w: device does not support cooperative kernel launch", gpu.ErrUnsupported)
	}
	if err := gpu.ValidateLaunch(p.Function, p.Global, p.Args); err != nil {
		return err
	}
	if gpu.Debug {
		if _, err := gpu.EncodedSize(p.Function.Info, p.Args); err != nil {
			return fmt.Errorf("%w: %v", gpu.ErrInvariantViolation, err)
		}
	}
	local := gpu.CheckLocalWorkSize(p.Function, p.Local)
	grid := gpu.ComputeGrid(p.Global, local)

	run := makeDispatch(p.Function, p.Global, local, grid, p.Args)

	if p.Blocking || handler == nil {
		done := make(chan error, 1)
		q.jobs <- job{fn: run, wait: p.Wait, signal: p.Signal, done: done}
		return <-done
	}
	q.jobs <- job{fn: run, wait: p.Wait, signal: p.Signal, handler: handler}
	return nil
}

// ExecuteIndirect submits the resolved command slice for execution.
func (q *queue) ExecuteIndirect(pipeline *gpu.IndirectCommandPipeline, p *gpu.LaunchParams, cmdOffset, cmdCount uint32) error {
	if !pipeline.Completed() {
		return fmt.Errorf("%w: indirect command pipeline is not Complete", gpu.ErrInvalidArgument)
	}
	cmds, err := pipeline.Slice(cmdOffset, cmdCount)
	if err != nil {
		return err
	}
	run := func() error {
		for _, c := range cmds {
			switch {
			case c.Compute != nil:
				if err := runComputeCommand(c.Compute); err != nil {
					return err
				}
			case c.Render != nil:
				// Render commands are validated at encode time;
				// the host-cpu backend records but does not
				// rasterize them (see render.go).
			}
		}
		return nil
	}
	var wait, signal []gpu.Fence
	if p != nil {
		wait, signal = p.Wait, p.Signal
	}
	blocking := p == nil || p.Blocking
	if blocking {
		done := make(chan error, 1)
		q.jobs <- job{fn: run, wait: wait, signal: signal, done: done}
		return <-done
	}
	q.jobs <- job{fn: run, wait: wait, signal: signal}
	return nil
}

// submitSync runs fn on q's FIFO goroutine and blocks for its result,
// used by Buffer/Image operations that must observe queue ordering
// relative to prior launches.
func submitSync(q gpu.Queue, fn func() error) error {
	hq, ok := q.(*queue)
	if !ok {
		return fmt.Errorf("%w: queue is not a hostcpu queue", gpu.ErrInvalidArgument)
	}
	done := make(chan error, 1)
	hq.jobs <- job{fn: fn, done: done}
	return <-done
}
