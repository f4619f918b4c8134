package ir

// Block is an ordered operation sequence plus block parameters. The last
// operation of a well-formed block is a terminator.
type Block struct {
	ID     BlockID
	Parent RegionID

	Params []ValueID
	Ops    []OpID
}
