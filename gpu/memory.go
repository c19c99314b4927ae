// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

// Access is the device-side access mode of a memory object.
type Access int

// Access modes (spec §6 "memory flags enum, stable bits").
const (
	AccessRead      Access = 1
	AccessWrite     Access = 2
	AccessReadWrite Access = AccessRead | AccessWrite
)

// HostAccess is the host-side access mode of a memory object.
type HostAccess int

// Host access modes.
const (
	HostNone HostAccess = iota
	HostRead
	HostWrite
	HostReadWrite
)

// MemFlags are lifecycle modifiers for a memory object.
type MemFlags int

// Lifecycle modifier flags.
const (
	// FNoInitialCopy skips the initial host->device upload even when
	// HostData is set.
	FNoInitialCopy MemFlags = 1 << iota
	// FSharingVulkan and FSharingMetal request a backend-exportable
	// external handle for interop.
	FSharingVulkan
	FSharingMetal
	// FVulkanHostCoherent requests the conservative host-coherent
	// fast path described in spec §9's first Open Question: a full
	// host-to-device barrier is still emitted on unmap.
	FVulkanHostCoherent
	FVulkanDescriptorBuffer
)

// MemDesc is the common creation descriptor shared by buffers and
// images.
type MemDesc struct {
	Access     Access
	HostAccess HostAccess
	Flags      MemFlags
	// HostData, when non-nil and FNoInitialCopy is not set, seeds the
	// object's initial content and becomes the default target of
	// Read/Write.
	HostData []byte
	Label    string
}

// MapFlags select the semantics of Buffer.Map / Image.Map.
type MapFlags int

// Map flags.
const (
	MapRead MapFlags = 1 << iota
	MapWrite
	// MapWriteInvalidate skips the device->host download that Map
	// would otherwise perform for a writable mapping.
	MapWriteInvalidate
	// MapBlock waits for all prior queue work before mapping, rather
	// than returning the staging pointer for a mapping that may race
	// still-executing work.
	MapBlock
)
