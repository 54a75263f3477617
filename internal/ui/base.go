package ui

// Base carries the size and focus every component needs. Embed it:
//
//	type Model struct {
//	    ui.Base
//	    list list.Model[catalog.Song]
//	}
type Base struct {
	width, height int
	focused       bool
}

func (b *Base) SetFocused(focused bool) { b.focused = focused }

func (b Base) IsFocused() bool { return b.focused }

// SetSize records the room the component may draw in.
func (b *Base) SetSize(width, height int) {
	b.width = width
	b.height = height
}

func (b Base) Size() (width, height int) { return b.width, b.height }

func (b Base) Width() int { return b.width }

func (b Base) Height() int { return b.height }

// Unsized reports whether no size was set yet. Views render nothing then.
func (b Base) Unsized() bool {
	return b.width <= 0 || b.height <= 0
}

// ListHeight is the height left for rows once overhead is taken. It is
// never negative.
func (b Base) ListHeight(overhead int) int {
	return max(b.height-overhead, 0)
}
