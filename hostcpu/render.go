// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package hostcpu

import (
	"fmt"

	"github.com/gviegas/gpucore/gpu"
)

// clearImage is the only rasterization-adjacent work the host-cpu
// renderer performs: it fills mip level 0 of an attachment's backing
// storage with zero bytes. The attachment's Clear value is not applied,
// for color or depth, so a non-zero clear color is not written. Draw calls themselves are validated and recorded by
// gpu.Renderer but not rasterized — a software triangle rasterizer is
// out of this backend's depth budget.
func clearImage(q gpu.Queue, img *image, a gpu.AttachmentDesc) error {
	return submitSync(q, func() error {
		img.mu.Lock()
		defer img.mu.Unlock()
		mem := img.levelData[0]
		bpe := img.typ.BitsPerElement() / 8
		if bpe <= 0 {
			bpe = 4
		}
		var pattern []byte
		if a.IsDepth() {
			// Depth clear value is recorded by the attachment descriptor
			// only; no depth test is implemented, so the storage is
			// simply zeroed.
			pattern = make([]byte, 4)
		} else {
			pattern = make([]byte, bpe)
		}
		if len(pattern) == 0 {
			pattern = []byte{0}
		}
		for i := 0; i+len(pattern) <= len(mem); i += len(pattern) {
			copy(mem[i:], pattern)
		}
		return nil
	})
}

// BeginAndClear begins r with dyn and, for every LoadClear attachment in
// images (indexed the same way r.SetAttachments was called), zero-fills
// its backing storage via clearImage. This is the host-cpu backend's concrete stand-in for
// a real backend's render-pass load operation.
func BeginAndClear(r *gpu.Renderer, q gpu.Queue, dyn gpu.DynamicState, images []gpu.Image) error {
	if err := r.Begin(dyn); err != nil {
		return err
	}
	pass := r.Pass
	for i, a := range pass.Desc.Attachments {
		if a.Load != gpu.LoadClear {
			continue
		}
		if i >= len(images) || images[i] == nil {
			continue
		}
		img, ok := images[i].(*image)
		if !ok {
			return fmt.Errorf("%w: attachment %d is not a hostcpu image", gpu.ErrInvalidArgument, i)
		}
		if err := clearImage(q, img, a); err != nil {
			return err
		}
	}
	return nil
}
