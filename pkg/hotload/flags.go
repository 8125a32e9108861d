package hotload

import "strings"

// ChangeFlags tell the consumer what the windows admitted by one Poll changed.
type ChangeFlags uint32

// FlagNone is returned by a Poll that admitted nothing.
const FlagNone ChangeFlags = 0

const (
	// DrawableCompiled is raised when a new drawable was published.
	DrawableCompiled ChangeFlags = 1 << iota
	// TxdModified is raised when a dictionary or texture changed.
	TxdModified
	// DrawableUnloaded is raised when the drawable was dropped.
	DrawableUnloaded
)

// Has reports whether every flag in other is set.
func (f ChangeFlags) Has(other ChangeFlags) bool {
	return other != 0 && f&other == other
}

func (f ChangeFlags) String() string {
	if f == FlagNone {
		return "none"
	}
	var parts []string
	if f.Has(DrawableCompiled) {
		parts = append(parts, "compiled")
	}
	if f.Has(TxdModified) {
		parts = append(parts, "txd")
	}
	if f.Has(DrawableUnloaded) {
		parts = append(parts, "unloaded")
	}
	return strings.Join(parts, "|")
}

// State is the asset worker's state.
type State int32

const (
	Idle State = iota
	Loading
	Watching
	Dispatching
	Exiting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Watching:
		return "watching"
	case Dispatching:
		return "dispatching"
	case Exiting:
		return "exiting"
	default:
		return "unknown"
	}
}
