// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Labeled is implemented by every memory object, program, function
// entry, pass, pipeline, renderer, indirect pipeline, fence and queue
// that accepts a debug label (spec §4.9).
type Labeled interface {
	Label() string
	SetLabel(string)
}

// ResourceRegistry maps debug labels to weak handles and back, guarded
// by its own mutex as required by spec §5. It is enabled per-Context via
// Context.EnableRegistry.
//
// Labels are hashed with xxhash to a bucket key; the registry still
// stores the original string (for enumeration and collision
// resolution), so this is purely a lookup-performance measure, not a
// replacement for the string itself.
type ResourceRegistry struct {
	mu      sync.Mutex
	byLabel map[uint64][]entry
	byPtr   map[any]string
}

type entry struct {
	label string
	ptr   any
}

func newResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{
		byLabel: make(map[uint64][]entry),
		byPtr:   make(map[any]string),
	}
}

func hashLabel(label string) uint64 {
	return xxhash.Sum64String(label)
}

// Insert registers ptr under no label. Memory objects call this on
// construction; labels are attached later via SetLabel.
func (r *ResourceRegistry) Insert(ptr any) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byPtr[ptr] = ""
}

// Remove unregisters ptr. Memory objects call this on destruction.
func (r *ResourceRegistry) Remove(ptr any) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	label, ok := r.byPtr[ptr]
	if !ok {
		return
	}
	delete(r.byPtr, ptr)
	if label == "" {
		return
	}
	r.removeFromLabel(label, ptr)
}

// SetLabel relabels ptr: any previous label is removed and the new one
// inserted, maintaining the bidirectional map.
func (r *ResourceRegistry) SetLabel(ptr any, label string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.byPtr[ptr]; ok && old != "" {
		r.removeFromLabel(old, ptr)
	}
	r.byPtr[ptr] = label
	if label == "" {
		return
	}
	h := hashLabel(label)
	r.byLabel[h] = append(r.byLabel[h], entry{label: label, ptr: ptr})
}

func (r *ResourceRegistry) removeFromLabel(label string, ptr any) {
	h := hashLabel(label)
	es := r.byLabel[h]
	for i, e := range es {
		if e.label == label && e.ptr == ptr {
			r.byLabel[h] = append(es[:i], es[i+1:]...)
			break
		}
	}
	if len(r.byLabel[h]) == 0 {
		delete(r.byLabel, h)
	}
}

// Lookup returns the (weak) handles currently registered under label.
func (r *ResourceRegistry) Lookup(label string) []any {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	es := r.byLabel[hashLabel(label)]
	out := make([]any, 0, len(es))
	for _, e := range es {
		if e.label == label {
			out = append(out, e.ptr)
		}
	}
	return out
}

// LabelOf returns the label currently registered for ptr, or "" if ptr
// is unlabeled or not registered.
func (r *ResourceRegistry) LabelOf(ptr any) string {
	if r == nil {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byPtr[ptr]
}

// Labels enumerates every currently-registered label.
func (r *ResourceRegistry) Labels() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, es := range r.byLabel {
		for _, e := range es {
			if !seen[e.label] {
				seen[e.label] = true
				out = append(out, e.label)
			}
		}
	}
	return out
}

// deviceIdentityKey derives the stable fallback identity hash for a
// device that reports no UUID, per spec §3 "(vendor, name)" fallback.
func deviceIdentityKey(vendor, name string) uint64 {
	h := xxhash.New()
	h.WriteString(vendor)
	h.Write([]byte{0})
	h.WriteString(name)
	return h.Sum64()
}
