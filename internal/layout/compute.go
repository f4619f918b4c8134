package layout

import (
	"warp/internal/ir"
)

func scalarLayoutBytes(n int) TypeLayout {
	if n < 1 {
		n = 1
	}
	return TypeLayout{Size: n, Align: n}
}

func (e *Engine) ptrLayout() TypeLayout {
	return TypeLayout{Size: e.Target.PtrSize, Align: e.Target.PtrAlign}
}

func (e *Engine) indexLayout() TypeLayout {
	return scalarLayoutBytes(e.Target.IndexSize)
}

func (e *Engine) compute(id ir.TypeID) (TypeLayout, error) {
	tt, ok := e.Types.Lookup(id)
	if !ok {
		return TypeLayout{}, &Error{Kind: ErrUnsized, Type: id}
	}

	switch tt.Kind {
	case ir.KindBool:
		return TypeLayout{Size: 1, Align: 1}, nil

	case ir.KindIndex:
		return e.indexLayout(), nil

	case ir.KindInt, ir.KindFloat:
		return scalarLayoutBytes(int(tt.Width) / 8), nil

	case ir.KindBuffer:
		return e.bufferLayout(id, tt)

	default:
		return TypeLayout{}, &Error{Kind: ErrUnsized, Type: id}
	}
}

// bufferLayout lowers a buffer to its call descriptor: the base pointer
// followed by one extent and one stride index field per dimension.
func (e *Engine) bufferLayout(id ir.TypeID, tt ir.Type) (TypeLayout, error) {
	elem, ok := e.Types.Lookup(tt.Elem)
	if !ok {
		return TypeLayout{}, &Error{Kind: ErrUnsized, Type: id}
	}
	if elem.Kind == ir.KindBuffer {
		return TypeLayout{}, &Error{Kind: ErrNestedBuffer, Type: id}
	}

	ptr := e.ptrLayout()
	idx := e.indexLayout()
	align := max(ptr.Align, idx.Align)

	offsets := make([]int, 0, 1+2*int(tt.Rank))
	offset := 0
	place := func(l TypeLayout) {
		offset = alignUp(offset, l.Align)
		offsets = append(offsets, offset)
		offset += l.Size
	}
	place(ptr)
	for range int(tt.Rank) {
		place(idx) // extent
		place(idx) // stride
	}
	return TypeLayout{
		Size:         alignUp(offset, align),
		Align:        align,
		FieldOffsets: offsets,
	}, nil
}

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + align - rem
}
