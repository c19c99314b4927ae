// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/gviegas/gpucore/gpu"
)

// image stores one mmap'd region per mip level, each level holding
// Layers() slices concatenated layer-major, matching Image.Map's
// mip-major concatenation contract (spec §4.3).
type image struct {
	mu     sync.Mutex
	typ    gpu.ImageType
	dim    gpu.Dim3D
	layers int
	levels int

	levelData [][]byte // one mmap region per level
	levelSize []int64  // bytes per level, all layers included

	label   string
	layout  gpu.Layout
	access  gpu.AccessMask

	mapped           bool
	mappedFirstLevel int
	mappedLevelCount int
}

func newImage(typ gpu.ImageType, dim gpu.Dim3D, layers int, mipLimit int, desc gpu.MemDesc) (*image, error) {
	if layers <= 0 {
		layers = 1
	}
	levels := gpu.MipLevelCount(dim, typ.IsMipmapped(), mipLimit)
	img := &image{typ: typ, dim: dim, layers: layers, levels: levels, label: desc.Label, layout: gpu.LayoutUndefined}
	img.levelData = make([][]byte, levels)
	img.levelSize = make([]int64, levels)

	var err error
	gpu.ApplyOnLevels(dim, levels, typ.BitsPerElement(), func(l int, d gpu.Dim3D, sizeBytes int64) bool {
		total := sizeBytes * int64(layers)
		if total <= 0 {
			total = int64(layers) // guarantee a non-zero mmap length
		}
		var mem []byte
		mem, err = unix.Mmap(-1, 0, int(total), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			err = fmt.Errorf("%w: mmap image level %d storage: %v", gpu.ErrResourceExhausted, l, err)
			return false
		}
		img.levelData[l] = mem
		img.levelSize[l] = total
		return true
	})
	if err != nil {
		img.destroyLocked()
		return nil, err
	}
	return img, nil
}

func (img *image) Label() string     { img.mu.Lock(); defer img.mu.Unlock(); return img.label }
func (img *image) SetLabel(l string) { img.mu.Lock(); defer img.mu.Unlock(); img.label = l }
func (img *image) Type() gpu.ImageType { return img.typ }
func (img *image) Dim() gpu.Dim3D      { return img.dim }
func (img *image) Layers() int         { return img.layers }
func (img *image) Levels() int         { return img.levels }

func (img *image) destroyLocked() {
	for i, mem := range img.levelData {
		if mem != nil {
			unix.Munmap(mem)
			img.levelData[i] = nil
		}
	}
}

func (img *image) Destroy() {
	img.mu.Lock()
	defer img.mu.Unlock()
	img.destroyLocked()
}

func (img *image) NewView(layer, layerCount, level, levelCount int) (gpu.ImageView, error) {
	if level < 0 || level+levelCount > img.levels || layer < 0 || layer+layerCount > img.layers {
		return nil, fmt.Errorf("%w: image view range out of bounds", gpu.ErrInvalidArgument)
	}
	return &imageView{img: img, layer: layer, layerCount: layerCount, level: level, levelCount: levelCount}, nil
}

// Zero zeros every mip level explicitly (spec §4.3, §8 P7).
func (img *image) Zero(q gpu.Queue) error {
	return submitSync(q, func() error {
		img.mu.Lock()
		defer img.mu.Unlock()
		for _, mem := range img.levelData {
			for i := range mem {
				mem[i] = 0
			}
		}
		return nil
	})
}

// Map concatenates the requested levels' storage in mip-major order
// into one contiguous slice copy (spec §4.3). The copy is written back
// per level on Unmap, so writes through the returned slice are not lost
// (mirroring buffer.Map, which instead maps the live storage directly —
// a per-level image can't be expressed as a single contiguous mmap
// region, so a copy-in/scatter-out round trip stands in for it).
func (img *image) Map(q gpu.Queue, flags gpu.MapFlags, firstLevel, levelCount int) ([]byte, error) {
	var out []byte
	err := submitSync(q, func() error {
		img.mu.Lock()
		defer img.mu.Unlock()
		if img.mapped {
			return fmt.Errorf("%w: overlapping mapped range", gpu.ErrInvariantViolation)
		}
		if firstLevel < 0 || levelCount <= 0 || firstLevel+levelCount > img.levels {
			return fmt.Errorf("%w: mip range [%d,%d) out of bounds", gpu.ErrInvalidArgument, firstLevel, firstLevel+levelCount)
		}
		var total int64
		for l := firstLevel; l < firstLevel+levelCount; l++ {
			total += img.levelSize[l]
		}
		out = make([]byte, 0, total)
		for l := firstLevel; l < firstLevel+levelCount; l++ {
			out = append(out, img.levelData[l]...)
		}
		img.mapped = true
		img.mappedFirstLevel = firstLevel
		img.mappedLevelCount = levelCount
		return nil
	})
	return out, err
}

// Unmap scatters ptr's contents back into the mapped levels' storage in
// the same mip-major order Map concatenated them, so writes through the
// mapped slice take effect (spec §4.3: "on unmap, writes are scattered
// back per level").
func (img *image) Unmap(q gpu.Queue, ptr []byte) error {
	return submitSync(q, func() error {
		img.mu.Lock()
		defer img.mu.Unlock()
		if !img.mapped {
			return fmt.Errorf("%w: Unmap without a matching Map", gpu.ErrInvalidArgument)
		}
		off := int64(0)
		for l := img.mappedFirstLevel; l < img.mappedFirstLevel+img.mappedLevelCount; l++ {
			n := img.levelSize[l]
			if off >= int64(len(ptr)) {
				break
			}
			end := off + n
			if end > int64(len(ptr)) {
				end = int64(len(ptr))
			}
			copy(img.levelData[l], ptr[off:end])
			off = end
		}
		img.mapped = false
		img.mappedFirstLevel = 0
		img.mappedLevelCount = 0
		return nil
	})
}

func (img *image) CurrentLayout() gpu.Layout     { img.mu.Lock(); defer img.mu.Unlock(); return img.layout }
func (img *image) CurrentAccess() gpu.AccessMask { img.mu.Lock(); defer img.mu.Unlock(); return img.access }

// Transition is idempotent: a no-op if already in the requested layout,
// per spec §4.3.
func (img *image) Transition(q gpu.Queue, newLayout gpu.Layout, newAccess gpu.AccessMask, immediate bool) (gpu.Barrier, error) {
	img.mu.Lock()
	before := gpu.Barrier{Image: img, LayoutBefore: img.layout, AccessBefore: img.access}
	if img.layout == newLayout && img.access == newAccess {
		img.mu.Unlock()
		return gpu.Barrier{}, nil
	}
	img.layout, img.access = newLayout, newAccess
	img.mu.Unlock()
	before.LayoutAfter, before.AccessAfter = newLayout, newAccess
	if immediate {
		if err := submitSync(q, func() error { return nil }); err != nil {
			return gpu.Barrier{}, err
		}
	}
	return before, nil
}

type imageView struct {
	img                    *image
	layer, layerCount      int
	level, levelCount      int
}

func (v *imageView) Destroy() { *v = imageView{} }
