package loader

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	errNoDocument      = errors.New("no document loaded")
	errSparseAccessor  = errors.New("sparse accessors are not supported")
	errAccessorBounds  = errors.New("accessor reads past the end of its buffer")
	errUnsupportedType = errors.New("unsupported accessor type")
)

func (p *gltfParserImpl) accessor(accessorIndex int) (*gltfAccessor, error) {
	if p.document == nil {
		return nil, errNoDocument
	}
	if accessorIndex < 0 || accessorIndex >= len(p.document.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIndex)
	}
	return &p.document.Accessors[accessorIndex], nil
}

func (p *gltfParserImpl) ReadAccessorData(accessorIndex int) ([]byte, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Sparse != nil {
		return nil, errSparseAccessor
	}

	componentSize := gltfComponentTypeSize(acc.ComponentType)
	componentCount := gltfAccessorTypeComponentCount(acc.Type)
	elementSize := componentSize * componentCount
	if elementSize == 0 {
		return nil, fmt.Errorf("%w: type=%s, componentType=%d", errUnsupportedType, acc.Type, acc.ComponentType)
	}

	result := make([]byte, acc.Count*elementSize)
	// Accessors without a bufferView are all zeros.
	if acc.BufferView == nil {
		return result, nil
	}
	if *acc.BufferView < 0 || *acc.BufferView >= len(p.document.BufferViews) {
		return nil, fmt.Errorf("bufferView index %d out of range", *acc.BufferView)
	}
	bv := &p.document.BufferViews[*acc.BufferView]
	if bv.Buffer < 0 || bv.Buffer >= len(p.document.Buffers) {
		return nil, fmt.Errorf("buffer index %d out of range", bv.Buffer)
	}
	buf := p.document.Buffers[bv.Buffer].Data

	stride := elementSize
	if bv.ByteStride != nil && *bv.ByteStride > 0 {
		stride = *bv.ByteStride
	}

	offset := bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 && offset+(acc.Count-1)*stride+elementSize > len(buf) {
		return nil, errAccessorBounds
	}
	for i := 0; i < acc.Count; i++ {
		src := offset + i*stride
		copy(result[i*elementSize:(i+1)*elementSize], buf[src:src+elementSize])
	}
	return result, nil
}

func (p *gltfParserImpl) ReadFloatAccessor(accessorIndex int) ([]float32, int, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, 0, err
	}
	switch acc.Type {
	case gltfAccessorTypeScalar, gltfAccessorTypeVec2, gltfAccessorTypeVec3, gltfAccessorTypeVec4:
	default:
		return nil, 0, fmt.Errorf("%w: %s", errUnsupportedType, acc.Type)
	}

	data, err := p.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, 0, err
	}

	components := gltfAccessorTypeComponentCount(acc.Type)
	size := gltfComponentTypeSize(acc.ComponentType)
	values := make([]float32, acc.Count*components)
	for i := range values {
		values[i] = decodeComponent(data[i*size:], acc.ComponentType, acc.Normalized)
	}
	return values, components, nil
}

func (p *gltfParserImpl) ReadScalarAccessor(accessorIndex int) ([]float32, error) {
	acc, err := p.accessor(accessorIndex)
	if err != nil {
		return nil, err
	}
	if acc.Type != gltfAccessorTypeScalar {
		return nil, fmt.Errorf("accessor is not SCALAR: type=%s", acc.Type)
	}
	values, _, err := p.ReadFloatAccessor(accessorIndex)
	return values, err
}

// decodeComponent reads one little-endian component. Normalized integers follow the glTF
// conversion rules; signed values clamp at -1.
func decodeComponent(b []byte, componentType int, normalized bool) float32 {
	switch componentType {
	case gltfComponentTypeFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b))
	case gltfComponentTypeByte:
		v := float32(int8(b[0]))
		if normalized {
			return max(v/127, -1)
		}
		return v
	case gltfComponentTypeUnsignedByte:
		v := float32(b[0])
		if normalized {
			return v / 255
		}
		return v
	case gltfComponentTypeShort:
		v := float32(int16(binary.LittleEndian.Uint16(b)))
		if normalized {
			return max(v/32767, -1)
		}
		return v
	case gltfComponentTypeUnsignedShort:
		v := float32(binary.LittleEndian.Uint16(b))
		if normalized {
			return v / 65535
		}
		return v
	case gltfComponentTypeUnsignedInt:
		return float32(binary.LittleEndian.Uint32(b))
	default:
		return 0
	}
}

// gltfComponentTypeSize returns the byte size of a component type.
func gltfComponentTypeSize(componentType int) int {
	switch componentType {
	case gltfComponentTypeByte, gltfComponentTypeUnsignedByte:
		return 1
	case gltfComponentTypeShort, gltfComponentTypeUnsignedShort:
		return 2
	case gltfComponentTypeUnsignedInt, gltfComponentTypeFloat:
		return 4
	default:
		return 0
	}
}

// gltfAccessorTypeComponentCount returns the number of components for an accessor type.
func gltfAccessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case gltfAccessorTypeScalar:
		return 1
	case gltfAccessorTypeVec2:
		return 2
	case gltfAccessorTypeVec3:
		return 3
	case gltfAccessorTypeVec4, gltfAccessorTypeMat2:
		return 4
	case gltfAccessorTypeMat3:
		return 9
	case gltfAccessorTypeMat4:
		return 16
	default:
		return 0
	}
}
