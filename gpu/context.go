// Copyright 2026 Gustavo C. Viegas. All rights reserved.

// Package gpu defines the backend-agnostic core of a cross-backend GPU
// compute and graphics runtime: the context/device/queue/fence/buffer/
// image/program/function hierarchy, the argument marshalling and launch
// pipeline, and the render-pass/pipeline/renderer state machine.
//
// It is designed the way gviegas/scene's driver package designs its GPU
// abstraction: a small set of interfaces that a concrete backend
// implements, with shared validation and bookkeeping living here so that
// backends only need to supply the parts that genuinely differ (device
// enumeration, command encoding, memory allocation).
package gpu

import (
	"log"
	"sort"
	"sync"
)

// ContextFlags selects optional capability at context-creation time.
type ContextFlags int

// Context flags.
const (
	FGraphics ContextFlags = 1 << iota
	FVR
	FToolchain
)

// Backend is the interface a concrete driver (host-cpu emulator,
// Vulkan-like, CUDA-family, ...) implements to be selectable by Open.
// Backend implementations register themselves from an init function,
// the same way gviegas/scene's driver.Driver implementations do.
type Backend interface {
	// Name returns the backend's name. Must not open the backend.
	Name() string

	// Open initializes the backend and returns a Context enumerating
	// its devices. A backend that finds no suitable device returns
	// ErrNoDevice.
	Open(flags ContextFlags) (*Context, error)
}

var (
	backendsMu sync.Mutex
	backends   []Backend
)

// Register registers a Backend. Backend implementations call this
// exactly once from an init function. Registering a backend with a name
// that already exists replaces it.
func Register(b Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	for i, x := range backends {
		if x.Name() == b.Name() {
			backends[i] = b
			log.Printf("gpu: backend %q replaced", b.Name())
			return
		}
	}
	backends = append(backends, b)
}

// Backends returns the registered backends, in registration order.
func Backends() []Backend {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	out := make([]Backend, len(backends))
	copy(out, backends)
	return out
}

// Open tries every registered backend in turn and returns the Context of
// the first one that opens successfully. If every backend fails, it
// returns the first backend's error; it returns ErrNoDevice if no backend
// is registered.
func Open(flags ContextFlags) (*Context, error) {
	var firstErr error
	for _, b := range Backends() {
		ctx, err := b.Open(flags)
		if err == nil {
			return ctx, nil
		}
		if firstErr == nil {
			firstErr = err
		}
		log.Printf("gpu: backend %q failed to open: %v", b.Name(), err)
	}
	if firstErr == nil {
		firstErr = ErrNoDevice
	}
	return nil, firstErr
}

// DeviceSelector resolves to exactly one device within a Context.
type DeviceSelector struct {
	// Kind selects among Any, Fastest, FastestGPU, FastestCPU or an
	// explicit (Kind, Index) pair (e.g. "GPU1", "CPU0").
	Kind  SelectorKind
	Index int
}

// SelectorKind is the tag of a DeviceSelector.
type SelectorKind int

// Selector kinds.
const (
	SelAny SelectorKind = iota
	SelFastest
	SelFastestGPU
	SelFastestCPU
	SelGPUn
	SelCPUn
)

// Context is the root object for one backend on one process. It owns an
// immutable, ordered list of devices (leaves-first: CPU emulator last),
// a private default queue per device, a program registry and an
// optional resource registry.
type Context struct {
	backend Backend
	flags   ContextFlags

	Devices         []*Device
	FastestDevice   *Device
	FastestGPUDevice *Device
	FastestCPUDevice *Device

	queueFactory  func(dev *Device) (Queue, error)
	defaultQueues map[*Device]Queue
	dqMu          sync.Mutex

	programs   []*Program
	programsMu sync.RWMutex

	registry   *ResourceRegistry
	regEnabled bool

	// uuidIndex and nameIndex index the devices by UUID and by
	// (vendor, name) for GetCorrespondingDevice; NewContext fills them.
	uuidIndex map[string]*Device
	nameIndex map[[2]string]*Device
}

// NewContext is called by a Backend's Open implementation to construct
// the shared Context bookkeeping around its enumerated devices.
func NewContext(backend Backend, flags ContextFlags, devices []*Device, queueFactory func(*Device) (Queue, error)) (*Context, error) {
	if len(devices) == 0 {
		return nil, ErrNoDevice
	}
	// Leaves-first, deterministic: CPU devices sort after GPU/other
	// devices; ties broken by enumeration order (stable sort).
	sorted := make([]*Device, len(devices))
	copy(sorted, devices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rank(sorted[i].Kind) < rank(sorted[j].Kind)
	})

	c := &Context{
		backend:       backend,
		flags:         flags,
		Devices:       sorted,
		queueFactory:  queueFactory,
		defaultQueues: make(map[*Device]Queue),
		uuidIndex:     make(map[string]*Device),
		nameIndex:     make(map[[2]string]*Device),
	}
	for _, d := range sorted {
		if d.UUID != "" {
			c.uuidIndex[d.UUID] = d
		}
		c.nameIndex[[2]string{d.Vendor, d.Name}] = d
		c.considerFastest(d)
	}
	return c, nil
}

func rank(k DeviceKind) int {
	switch k {
	case KindGPU:
		return 0
	case KindOther:
		return 1
	case KindCPU:
		return 2
	default:
		return 3
	}
}

func (c *Context) considerFastest(d *Device) {
	if c.FastestDevice == nil || d.Score() > c.FastestDevice.Score() {
		c.FastestDevice = d
	}
	switch d.Kind {
	case KindGPU:
		if c.FastestGPUDevice == nil || d.Score() > c.FastestGPUDevice.Score() {
			c.FastestGPUDevice = d
		}
	case KindCPU:
		if c.FastestCPUDevice == nil || d.Score() > c.FastestCPUDevice.Score() {
			c.FastestCPUDevice = d
		}
	}
}

// Flags returns the flags this Context was created with.
func (c *Context) Flags() ContextFlags { return c.flags }

// Backend returns the name of the backend that owns this Context.
func (c *Context) Backend() string { return c.backend.Name() }

// GetDevice resolves a DeviceSelector to one Device. If the selector
// cannot be resolved (e.g. GPU3 but only two GPUs enumerated), it logs
// an error and returns the first enumerated device rather than failing
// the call, matching spec §4.1.
func (c *Context) GetDevice(sel DeviceSelector) *Device {
	var d *Device
	switch sel.Kind {
	case SelAny:
		d = c.Devices[0]
	case SelFastest:
		d = c.FastestDevice
	case SelFastestGPU:
		d = c.FastestGPUDevice
	case SelFastestCPU:
		d = c.FastestCPUDevice
	case SelGPUn:
		d = nthOfKind(c.Devices, KindGPU, sel.Index)
	case SelCPUn:
		d = nthOfKind(c.Devices, KindCPU, sel.Index)
	}
	if d == nil {
		log.Printf("gpu: device selector %+v did not match any device; using first enumerated device", sel)
		d = c.Devices[0]
	}
	return d
}

func nthOfKind(devs []*Device, kind DeviceKind, n int) *Device {
	i := 0
	for _, d := range devs {
		if d.Kind == kind {
			if i == n {
				return d
			}
			i++
		}
	}
	return nil
}

// GetCorrespondingDevice matches an external device identity, first by
// UUID and then by (vendor, name), as required by spec §4.1.
func (c *Context) GetCorrespondingDevice(uuid, vendor, name string) *Device {
	if uuid != "" {
		if d, ok := c.uuidIndex[uuid]; ok {
			return d
		}
	}
	if d, ok := c.nameIndex[[2]string{vendor, name}]; ok {
		return d
	}
	return nil
}

// DefaultQueue returns the per-device default queue, creating it lazily
// on first use.
func (c *Context) DefaultQueue(d *Device) (Queue, error) {
	c.dqMu.Lock()
	defer c.dqMu.Unlock()
	if q, ok := c.defaultQueues[d]; ok {
		return q, nil
	}
	q, err := c.queueFactory(d)
	if err != nil {
		return nil, err
	}
	c.defaultQueues[d] = q
	return q, nil
}

// CreateQueue creates a new, independent queue bound to d.
func (c *Context) CreateQueue(d *Device) (Queue, error) {
	return c.queueFactory(d)
}

// EnableRegistry enables the resource registry: every memory object
// created from this point on will register its handle, and labels set
// via SetLabel populate the label<->handle maps.
func (c *Context) EnableRegistry() {
	c.regEnabled = true
	if c.registry == nil {
		c.registry = newResourceRegistry()
	}
}

// Registry returns the resource registry, or nil if it was never
// enabled via EnableRegistry.
func (c *Context) Registry() *ResourceRegistry {
	if !c.regEnabled {
		return nil
	}
	return c.registry
}

// AddProgram registers a compiled Program with the context under an
// exclusive-for-writers, shared-for-readers lock.
func (c *Context) AddProgram(p *Program) {
	c.programsMu.Lock()
	defer c.programsMu.Unlock()
	c.programs = append(c.programs, p)
}

// Programs returns a snapshot of the registered programs.
func (c *Context) Programs() []*Program {
	c.programsMu.RLock()
	defer c.programsMu.RUnlock()
	out := make([]*Program, len(c.programs))
	copy(out, c.programs)
	return out
}

