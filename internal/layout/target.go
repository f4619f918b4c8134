package layout

// Target describes the device ABI kernel arguments are marshalled for.
type Target struct {
	Name      string // e.g. "device64"
	PtrSize   int    // bytes
	PtrAlign  int    // bytes
	IndexSize int    // bytes occupied by an index value
}

// Device64 is the default 64-bit device target: 8-byte pointers and
// 8-byte index values.
func Device64() Target {
	return Target{
		Name:      "device64",
		PtrSize:   8,
		PtrAlign:  8,
		IndexSize: 8,
	}
}
