package layout

import "reflect"

// Info describes the storage cell of one variant type.
type Info struct {
	Size          uintptr
	Align         uintptr
	DiscSize      uintptr
	PayloadOffset uintptr
	PayloadSize   uintptr
	// Widest and Strictest are alternative indices, -1 for an empty set.
	Widest    int
	Strictest int
}

// AlignTo rounds offset up to the next multiple of align.
func AlignTo(offset, align uintptr) uintptr {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// DiscriminantSize: 1 byte for <=256 alternatives, 2 for <=65536, else 4.
func DiscriminantSize(numAlternatives int) uintptr {
	if numAlternatives <= 256 {
		return 1
	} else if numAlternatives <= 65536 {
		return 2
	}
	return 4
}

// Calculate lays out a cell for the given stored alternative types.
func Calculate(alternatives []reflect.Type) Info {
	if len(alternatives) == 0 {
		return Info{Size: 0, Align: 1, DiscSize: 1, Widest: -1, Strictest: -1}
	}

	discSize := DiscriminantSize(len(alternatives))

	info := Info{
		DiscSize:  discSize,
		Widest:    0,
		Strictest: 0,
	}

	maxAlign := uintptr(1)
	maxSize := uintptr(0)

	for i, t := range alternatives {
		size, align := sizeAlign(t)
		if align > maxAlign {
			maxAlign = align
			info.Strictest = i
		}
		if size > maxSize {
			maxSize = size
			info.Widest = i
		}
	}

	cellAlign := maxAlign
	if discSize > cellAlign {
		cellAlign = discSize
	}

	info.PayloadOffset = AlignTo(discSize, maxAlign)
	info.PayloadSize = maxSize
	info.Align = cellAlign
	info.Size = AlignTo(info.PayloadOffset+maxSize, cellAlign)
	return info
}

func sizeAlign(t reflect.Type) (uintptr, uintptr) {
	if t == nil {
		return 0, 1
	}
	align := uintptr(t.Align())
	if align == 0 {
		align = 1
	}
	return t.Size(), align
}
