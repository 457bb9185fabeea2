package namedpipe

// Direction is the flow of data relative to the process that owns an end
// of the pipe.
type Direction int

const (
	// Inbound means the owner reads.
	Inbound Direction = iota
	// Outbound means the owner writes.
	Outbound
)

// String returns the lowercase name of the direction
func (d Direction) String() string {
	switch d {
	case Inbound:
		return "inbound"
	case Outbound:
		return "outbound"
	default:
		return "unknown"
	}
}

// Peer returns the direction the other end of the pipe uses
func (d Direction) Peer() Direction {
	if d == Outbound {
		return Inbound
	}
	return Outbound
}

// ParseDirection converts "inbound" or "outbound" into a Direction
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "inbound", "in":
		return Inbound, true
	case "outbound", "out":
		return Outbound, true
	}
	return Inbound, false
}

func (d Direction) valid() bool {
	return d == Inbound || d == Outbound
}
