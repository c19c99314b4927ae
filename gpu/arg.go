// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
)

// ArgKind is the tag of an Arg.
type ArgKind int

// Argument categories (spec §4.5, §9 "Variadic + type-checked
// dispatch"). The source relies on compile-time overload enablement to
// reject raw pointers and nullptr; here that becomes a closed set of
// builder functions that are the only way to construct an Arg, so a
// caller can never smuggle in a raw/null pointer.
const (
	ArgKindBuffer ArgKind = iota
	ArgKindBufferSlice
	ArgKindImage
	ArgKindImageSlice
	ArgKindArgBuffer
	ArgKindPod
	ArgKindPodSlice
)

// Arg is a tagged argument ready for marshalling into a function launch.
// The zero Arg is invalid; every non-zero Arg is produced by one of the
// builder functions below.
type Arg struct {
	kind  ArgKind
	buf   Buffer
	bufs  []Buffer
	img   Image
	imgs  []Image
	argBuf ArgumentBuffer
	bytes []byte
}

// Kind reports which category of argument this is.
func (a Arg) Kind() ArgKind { return a.kind }

// AsBuffer returns the wrapped buffer and true if Kind() == ArgKindBuffer.
func (a Arg) AsBuffer() (Buffer, bool) {
	if a.kind != ArgKindBuffer {
		return nil, false
	}
	return a.buf, true
}

// AsBufferSlice returns the wrapped buffer span and true if
// Kind() == ArgKindBufferSlice.
func (a Arg) AsBufferSlice() ([]Buffer, bool) {
	if a.kind != ArgKindBufferSlice {
		return nil, false
	}
	return a.bufs, true
}

// AsImage returns the wrapped image and true if Kind() == ArgKindImage.
func (a Arg) AsImage() (Image, bool) {
	if a.kind != ArgKindImage {
		return nil, false
	}
	return a.img, true
}

// AsImageSlice returns the wrapped image span and true if
// Kind() == ArgKindImageSlice.
func (a Arg) AsImageSlice() ([]Image, bool) {
	if a.kind != ArgKindImageSlice {
		return nil, false
	}
	return a.imgs, true
}

// AsArgumentBuffer returns the wrapped argument buffer and true if
// Kind() == ArgKindArgBuffer.
func (a Arg) AsArgumentBuffer() (ArgumentBuffer, bool) {
	if a.kind != ArgKindArgBuffer {
		return nil, false
	}
	return a.argBuf, true
}

// AsBytes returns the encoded bytes and true if Kind() is ArgKindPod or
// ArgKindPodSlice.
func (a Arg) AsBytes() ([]byte, bool) {
	if a.kind != ArgKindPod && a.kind != ArgKindPodSlice {
		return nil, false
	}
	return a.bytes, true
}

// ArgBufferVal wraps a single buffer pointer argument.
func ArgBufferVal(b Buffer) (Arg, error) {
	if b == nil {
		return Arg{}, fmt.Errorf("%w: nil buffer argument", ErrInvalidArgument)
	}
	return Arg{kind: ArgKindBuffer, buf: b}, nil
}

// ArgBufferSliceVal wraps a fixed-size span of buffer pointers.
func ArgBufferSliceVal(bs []Buffer) (Arg, error) {
	for _, b := range bs {
		if b == nil {
			return Arg{}, fmt.Errorf("%w: nil buffer in buffer slice argument", ErrInvalidArgument)
		}
	}
	return Arg{kind: ArgKindBufferSlice, bufs: bs}, nil
}

// ArgImageVal wraps a single image pointer argument.
func ArgImageVal(i Image) (Arg, error) {
	if i == nil {
		return Arg{}, fmt.Errorf("%w: nil image argument", ErrInvalidArgument)
	}
	return Arg{kind: ArgKindImage, img: i}, nil
}

// ArgImageSliceVal wraps a fixed-size span of image pointers.
func ArgImageSliceVal(is []Image) (Arg, error) {
	for _, i := range is {
		if i == nil {
			return Arg{}, fmt.Errorf("%w: nil image in image slice argument", ErrInvalidArgument)
		}
	}
	return Arg{kind: ArgKindImageSlice, imgs: is}, nil
}

// ArgArgumentBufferVal wraps an argument-buffer pointer argument.
func ArgArgumentBufferVal(ab ArgumentBuffer) (Arg, error) {
	if ab == nil {
		return Arg{}, fmt.Errorf("%w: nil argument buffer", ErrInvalidArgument)
	}
	return Arg{kind: ArgKindArgBuffer, argBuf: ab}, nil
}

// ArgPod wraps a generic POD value passed by value. v must be a fixed
// size type (no pointers, no slices, no strings); use ArgPodSlice for
// a contiguous range of such values.
func ArgPod(v any) (Arg, error) {
	b, err := encodePod(v)
	if err != nil {
		return Arg{}, err
	}
	return Arg{kind: ArgKindPod, bytes: b}, nil
}

// ArgPodSlice wraps a contiguous range of POD values. v must be a slice
// of a fixed size type.
func ArgPodSlice(v any) (Arg, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return Arg{}, fmt.Errorf("%w: ArgPodSlice requires a slice, got %T", ErrInvalidArgument, v)
	}
	var buf []byte
	for i := 0; i < rv.Len(); i++ {
		b, err := encodePod(rv.Index(i).Interface())
		if err != nil {
			return Arg{}, err
		}
		buf = append(buf, b...)
	}
	return Arg{kind: ArgKindPodSlice, bytes: buf}, nil
}

// encodePod flattens a fixed-size scalar or struct of fixed-size
// scalars into little-endian bytes. Raw and null pointers are rejected,
// per spec §4.5 "Raw integer pointers and null pointers are explicitly
// rejected."
func encodePod(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, fmt.Errorf("%w: nil POD argument", ErrInvalidArgument)
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.UnsafePointer, reflect.Chan, reflect.Func, reflect.Map, reflect.Interface:
		return nil, fmt.Errorf("%w: pointer-like type %s is not a valid POD argument", ErrInvalidArgument, rv.Type())
	}
	size := int(rv.Type().Size())
	buf := make([]byte, 0, size)
	var flatten func(reflect.Value)
	flatten = func(rv reflect.Value) {
		switch rv.Kind() {
		case reflect.Struct:
			for i := 0; i < rv.NumField(); i++ {
				flatten(rv.Field(i))
			}
		case reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				flatten(rv.Index(i))
			}
		case reflect.Uint8:
			buf = append(buf, byte(rv.Uint()))
		case reflect.Int8:
			buf = append(buf, byte(rv.Int()))
		case reflect.Uint16:
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], uint16(rv.Uint()))
			buf = append(buf, b[:]...)
		case reflect.Int16:
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], uint16(rv.Int()))
			buf = append(buf, b[:]...)
		case reflect.Uint32, reflect.Float32:
			var b [4]byte
			if rv.Kind() == reflect.Float32 {
				binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(rv.Float())))
			} else {
				binary.LittleEndian.PutUint32(b[:], uint32(rv.Uint()))
			}
			buf = append(buf, b[:]...)
		case reflect.Int32:
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], uint32(rv.Int()))
			buf = append(buf, b[:]...)
		case reflect.Uint64, reflect.Float64:
			var b [8]byte
			if rv.Kind() == reflect.Float64 {
				binary.LittleEndian.PutUint64(b[:], math.Float64bits(rv.Float()))
			} else {
				binary.LittleEndian.PutUint64(b[:], uint64(rv.Uint()))
			}
			buf = append(buf, b[:]...)
		case reflect.Int64:
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(rv.Int()))
			buf = append(buf, b[:]...)
		case reflect.Uint:
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(rv.Uint()))
			buf = append(buf, b[:]...)
		case reflect.Int:
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(rv.Int()))
			buf = append(buf, b[:]...)
		default:
			buf = append(buf, make([]byte, rv.Type().Size())...)
		}
	}
	flatten(rv)
	return buf, nil
}
