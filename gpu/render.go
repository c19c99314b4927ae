// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

import "fmt"

// LoadOp is an attachment's load operation.
type LoadOp int

// Load operations.
const (
	LoadDontCare LoadOp = iota
	LoadClear
	LoadLoad
)

// StoreOp is an attachment's store operation.
type StoreOp int

// Store operations.
const (
	StoreDontCare StoreOp = iota
	StoreStore
	StoreResolve
	StoreStoreAndResolve
)

// ClearValue carries clear values for color or depth/stencil aspects.
type ClearValue struct {
	Color   [4]float32
	Depth   float32
	Stencil uint32
}

// AttachmentDesc describes one render target slot in a render pass
// (spec §4.7).
type AttachmentDesc struct {
	Format                         ImageType
	Load                           LoadOp
	Store                          StoreOp
	Clear                          ClearValue
	AutomaticMultiViewTransformation bool
}

// IsDepth reports whether this attachment is the depth/stencil
// attachment, derived from FLAG_DEPTH in Format (spec §4.7).
func (a AttachmentDesc) IsDepth() bool { return a.Format.IsDepth() }

// RenderPassDesc is a list of attachments plus whether the pass was
// created with multi-view support.
type RenderPassDesc struct {
	Attachments []AttachmentDesc
	MultiView   bool
}

// MultiViewCapable reports whether every attachment's format already
// carries FlagArray or has AutomaticMultiViewTransformation enabled
// (spec §4.7 "multi-view capable").
func (d RenderPassDesc) MultiViewCapable() bool {
	if !d.MultiView {
		return false
	}
	for _, a := range d.Attachments {
		if !a.Format.IsArray() && !a.AutomaticMultiViewTransformation {
			return false
		}
	}
	return true
}

// RenderPass groups a set of attachment descriptors for use by a
// Renderer.
type RenderPass struct {
	label string
	Desc  RenderPassDesc
}

// NewRenderPass validates desc and returns a RenderPass.
func NewRenderPass(desc RenderPassDesc) (*RenderPass, error) {
	if len(desc.Attachments) == 0 {
		return nil, fmt.Errorf("%w: render pass requires at least one attachment", ErrInvalidArgument)
	}
	return &RenderPass{Desc: desc}, nil
}

func (p *RenderPass) Label() string     { return p.label }
func (p *RenderPass) SetLabel(l string) { p.label = l }
func (p *RenderPass) Destroy()          { *p = RenderPass{} }

// Topology is a primitive topology.
type Topology int

const (
	TopoPoint Topology = iota
	TopoLine
	TopoLineStrip
	TopoTriangle
	TopoTriangleStrip
)

// CullMode selects primitive culling based on facing direction.
type CullMode int

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

// CmpFunc is a comparison function.
type CmpFunc int

const (
	CmpNever CmpFunc = iota
	CmpLess
	CmpEqual
	CmpLessEqual
	CmpGreater
	CmpNotEqual
	CmpGreaterEqual
	CmpAlways
)

// DepthState is the depth-test state of a pipeline.
type DepthState struct {
	Write      bool
	RangeMin   float32
	RangeMax   float32
	Compare    CmpFunc
}

// ColorBlendState is one render target's blend parameters.
type ColorBlendState struct {
	Blend bool
}

// TessellationState describes tessellation configuration (spec §4.7,
// §6 "max_tessellation_factor").
type TessellationState struct {
	MaxFactor     int
	Indexed       bool
	VertexAttribs []VertexIn
}

// VertexIn describes a single vertex input (spec: teacher's VertexIn).
type VertexIn struct {
	Format VertexFmt
	Stride int
	Nr     int
	Name   string
}

// VertexFmt describes the format of a vertex input component.
type VertexFmt int

const (
	VFInt8 VertexFmt = iota
	VFInt16
	VFInt32
	VFUint8
	VFUint16
	VFUint32
	VFFloat32
)

// Viewport defines viewport bounds. Width/Height of ^uint32(0)
// (ViewportFullScreen) means "full screen" and is resolved against the
// current screen/VR target size at pipeline-creation time (spec §4.7).
type Viewport struct {
	X, Y, Width, Height, ZNear, ZFar float32
}

// ViewportFullScreen is the sentinel for Viewport.Width/Height.
const ViewportFullScreen = ^uint32(0)

// Scissor defines a scissor rectangle. Extent of ^uint32(0)
// (ScissorFullViewport) means "full viewport".
type Scissor struct {
	X, Y, Width, Height uint32
}

// ScissorFullViewport is the sentinel for Scissor.Width/Height.
const ScissorFullViewport = ^uint32(0)

// RenderPipelineDesc is the full description of a graphics pipeline
// (spec §4.7).
type RenderPipelineDesc struct {
	VertexFunc, FragmentFunc *FunctionEntry
	Topology                 Topology
	Cull                     CullMode
	ClockwiseFrontFace       bool
	Samples                  int
	Viewport                 Viewport
	Scissor                  Scissor
	Depth                    DepthState
	BlendConstants           [4]float32
	ColorBlend               []ColorBlendState
	DepthAttachmentFormat    ImageType
	Tessellation             *TessellationState
	MultiView                bool
	IndirectRendering        bool
	Wireframe                bool
	Label                    string
}

// RenderPipeline is a compiled graphics pipeline.
type RenderPipeline struct {
	label string
	Desc  RenderPipelineDesc
}

// NewRenderPipeline resolves sentinel viewport/scissor values against
// screenW/screenH and clamps tessellation's MaxFactor against the
// owning device's limit (spec §6 "Supplemented Features").
func NewRenderPipeline(desc RenderPipelineDesc, dev *Device, screenW, screenH float32) (*RenderPipeline, error) {
	if desc.VertexFunc == nil || desc.FragmentFunc == nil {
		return nil, fmt.Errorf("%w: render pipeline requires vertex and fragment functions", ErrInvalidArgument)
	}
	if desc.Samples != 0 {
		s := desc.Samples
		if s&(s-1) != 0 || s > 64 {
			return nil, fmt.Errorf("%w: sample count must be a power of two in [0,64]", ErrInvalidArgument)
		}
	}
	if desc.Viewport.Width == float32(ViewportFullScreen) {
		desc.Viewport.Width = screenW
	}
	if desc.Viewport.Height == float32(ViewportFullScreen) {
		desc.Viewport.Height = screenH
	}
	if desc.Scissor.Width == ScissorFullViewport {
		desc.Scissor.Width = uint32(desc.Viewport.Width)
	}
	if desc.Scissor.Height == ScissorFullViewport {
		desc.Scissor.Height = uint32(desc.Viewport.Height)
	}
	if desc.Tessellation != nil && dev != nil && dev.Limits.MaxTessellationFactor > 0 {
		if desc.Tessellation.MaxFactor > dev.Limits.MaxTessellationFactor {
			desc.Tessellation.MaxFactor = dev.Limits.MaxTessellationFactor
		}
	}
	return &RenderPipeline{label: desc.Label, Desc: desc}, nil
}

func (p *RenderPipeline) Label() string     { return p.label }
func (p *RenderPipeline) SetLabel(l string) { p.label = l }
func (p *RenderPipeline) Destroy()          { *p = RenderPipeline{} }

// RendererState is the explicit state of a Renderer's recording
// lifecycle (spec §4.7, §9 "Render state machine").
type RendererState int

// Renderer states.
const (
	RendererIdle RendererState = iota
	RendererRecording
	RendererClosed
	RendererCommitted
)

// DynamicState overrides viewport/scissor/clear values for one draw
// batch (spec §4.7 "begin(dynamic_state)").
type DynamicState struct {
	Viewport *Viewport
	Scissor  *Scissor
	Clear    []ClearValue
}

// Renderer is bound to (queue, pass, pipeline) and walks the state
// machine: idle -> Begin -> recording (draw*, repeatable) -> End ->
// closed -> Commit -> committed (spec §4.7). It carries no multi-view
// setting of its own.
type Renderer struct {
	label string

	Queue    Queue
	Pass     *RenderPass
	Pipeline *RenderPipeline

	state RendererState

	attachments    map[int]Image
	depthAttachment Image

	dynamic DynamicState
	draws   []drawCall
}

// NewRenderer constructs a Renderer bound to the given queue, pass and
// pipeline.
func NewRenderer(q Queue, pass *RenderPass, pipeline *RenderPipeline) *Renderer {
	return &Renderer{
		Queue:       q,
		Pass:        pass,
		Pipeline:    pipeline,
		state:       RendererIdle,
		attachments: make(map[int]Image),
	}
}

func (r *Renderer) Label() string     { return r.label }
func (r *Renderer) SetLabel(l string) { r.label = l }
func (r *Renderer) State() RendererState { return r.state }

// SetAttachments resets all attachments to the given list.
func (r *Renderer) SetAttachments(imgs []Image) error {
	if r.state == RendererRecording {
		return fmt.Errorf("%w: cannot change attachments while recording", ErrInvalidArgument)
	}
	r.attachments = make(map[int]Image, len(imgs))
	r.depthAttachment = nil
	for i, img := range imgs {
		r.setOne(i, img)
	}
	return nil
}

// SetAttachment updates one attachment index.
func (r *Renderer) SetAttachment(i int, img Image) error {
	if r.state == RendererRecording {
		return fmt.Errorf("%w: cannot change attachments while recording", ErrInvalidArgument)
	}
	r.setOne(i, img)
	return nil
}

func (r *Renderer) setOne(i int, img Image) {
	if img != nil && img.Type().IsDepth() {
		r.depthAttachment = img
		return
	}
	r.attachments[i] = img
}

// SwitchPipeline changes the bound pipeline. Allowed only outside
// begin/end (spec §4.7).
func (r *Renderer) SwitchPipeline(p *RenderPipeline) error {
	if r.state == RendererRecording {
		return fmt.Errorf("%w: cannot switch pipeline while recording", ErrInvalidArgument)
	}
	r.Pipeline = p
	return nil
}

// Begin validates that every attachment the pass declares has a
// matching image (spec §3 invariant) and transitions to Recording.
func (r *Renderer) Begin(dyn DynamicState) error {
	if r.state != RendererIdle && r.state != RendererClosed {
		return fmt.Errorf("%w: Begin called in state %v", ErrInvalidArgument, r.state)
	}
	for i, a := range r.Pass.Desc.Attachments {
		if a.IsDepth() {
			if r.depthAttachment == nil {
				return fmt.Errorf("%w: render pass declares a depth attachment but none was supplied", ErrInvalidArgument)
			}
			continue
		}
		img, ok := r.attachments[i]
		if !ok || img == nil {
			return fmt.Errorf("%w: render pass attachment %d has no matching image", ErrInvalidArgument, i)
		}
		if !compatibleFormat(img.Type(), a.Format) {
			return fmt.Errorf("%w: attachment %d image format is not compatible with the declared format", ErrInvalidArgument, i)
		}
	}
	r.dynamic = dyn
	r.draws = r.draws[:0]
	r.state = RendererRecording
	return nil
}

func compatibleFormat(have, want ImageType) bool {
	return have.Channels() == want.Channels() &&
		have.BitsPerChannel() == want.BitsPerChannel() &&
		have.DataType() == want.DataType()
}

// End closes the command list, transitioning to Closed.
func (r *Renderer) End() error {
	if r.state != RendererRecording {
		return fmt.Errorf("%w: End called outside of recording", ErrInvalidArgument)
	}
	r.state = RendererClosed
	return nil
}

// Commit submits the recorded command list to the bound queue,
// transitioning to Committed. If wait is true, it blocks until the
// queue finishes the submitted work.
func (r *Renderer) Commit(wait bool) error {
	if r.state != RendererClosed {
		return fmt.Errorf("%w: Commit called outside of Closed state", ErrInvalidArgument)
	}
	r.state = RendererCommitted
	if wait {
		return r.Queue.Finish()
	}
	return r.Queue.Flush()
}

// drawCall is the one internal dispatcher every Draw* method forwards
// through (spec §4.7 "one internal dispatcher").
type drawCall struct {
	kind DrawKind
	args []any
}

// Draw draws non-indexed primitives; valid only while Recording.
func (r *Renderer) Draw(vertCount, instCount, firstVert, firstInst int) error {
	return r.dispatch(drawCall{kind: DrawVertices, args: []any{vertCount, instCount, firstVert, firstInst}})
}

// DrawIndexed draws indexed primitives; valid only while Recording.
func (r *Renderer) DrawIndexed(indexBuf Buffer, indexCount, instCount, firstIndex, vertexOff, firstInst int) error {
	return r.dispatch(drawCall{kind: DrawIndexed, args: []any{indexBuf, indexCount, instCount, firstIndex, vertexOff, firstInst}})
}

// DrawPatches draws tessellated patches; valid only while Recording.
func (r *Renderer) DrawPatches(controlPointBufs []Buffer, factorsBuf Buffer, patchControlPoints, patchCount, firstPatch, instCount, firstInst int) error {
	return r.dispatch(drawCall{kind: DrawPatches, args: []any{controlPointBufs, factorsBuf, patchControlPoints, patchCount, firstPatch, instCount, firstInst}})
}

// DrawPatchesIndexed draws tessellated, indexed patches; valid only
// while Recording.
func (r *Renderer) DrawPatchesIndexed(controlPointBufs []Buffer, controlPointIndexBuf, factorsBuf Buffer, patchControlPoints, patchCount, firstPatch, instCount, firstInst int) error {
	return r.dispatch(drawCall{
		kind: DrawPatchesIndexed,
		args: []any{controlPointBufs, controlPointIndexBuf, factorsBuf, patchControlPoints, patchCount, firstPatch, instCount, firstInst},
	})
}

func (r *Renderer) dispatch(d drawCall) error {
	if r.state != RendererRecording {
		return fmt.Errorf("%w: draw call issued outside of a render pass", ErrInvalidArgument)
	}
	r.draws = append(r.draws, d)
	return nil
}

// RecordedDraws returns the kinds of draw calls recorded since the last
// Begin, in issue order. A backend's renderer walks this to replay the
// command list at Commit; the host-cpu backend's renderer validates and
// records through this path but does not rasterize (see hostcpu/render.go).
func (r *Renderer) RecordedDraws() []DrawKind {
	kinds := make([]DrawKind, len(r.draws))
	for i, d := range r.draws {
		kinds[i] = d.kind
	}
	return kinds
}

// GetNextDrawable obtains a screen-target image via the out-of-scope
// presentation contract (spec §1, §4.7, §6). The core only defines this
// boundary; a real windowing/VR integration supplies the function.
type DrawableProvider func(multiView bool) (Image, error)

// GetNextDrawable invalidated on Present; drawables are not cached by
// the core beyond the call that produced them.
func GetNextDrawable(provide DrawableProvider, multiView bool) (Image, error) {
	if provide == nil {
		return nil, fmt.Errorf("%w: no drawable provider configured", ErrUnsupported)
	}
	return provide(multiView)
}
