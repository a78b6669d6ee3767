package domain

// ChunkKind classifies a segment of offence wording.
type ChunkKind int

const (
	// ChunkProse is plain text with no placeholders.
	ChunkProse ChunkKind = iota
	// ChunkTerminalEntry contains one or more fill-in markers.
	ChunkTerminalEntry
	// ChunkMenu contains a run of option blocks.
	ChunkMenu
)

// String returns the display name of the chunk kind.
func (k ChunkKind) String() string {
	switch k {
	case ChunkTerminalEntry:
		return "Terminal Entry"
	case ChunkMenu:
		return "Menu"
	default:
		return "Text"
	}
}

// TextChunk is one segment of a text field, in source order.
type TextChunk struct {
	Order int
	Kind  ChunkKind
	Text  string
}
