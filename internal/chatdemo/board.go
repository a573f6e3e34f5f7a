package chatdemo

import (
	"sync"
	"unicode/utf8"
)

// Bubble is one rendered message on a Board.
type Bubble struct {
	Role Role
	Text string
}

// BoardSnapshot is a point-in-time copy of a Board.
type BoardSnapshot struct {
	Bubbles   []Bubble
	Typing    bool
	ScrollTop int
	Height    int
}

// Board is an in-memory presentation surface. It implements Surface directly
// and can also replay Ops received from elsewhere.
type Board struct {
	mu        sync.Mutex
	bubbles   []Bubble
	typing    bool
	scrollTop int
}

// NewBoard returns an empty board.
func NewBoard() *Board { return &Board{} }

// Apply replays a single op onto the board. Ops addressing bubbles that do
// not exist are ignored.
func (b *Board) Apply(op Op) {
	switch op.Kind {
	case OpClear:
		b.Clear()
	case OpTyping:
		b.ShowTyping()
	case OpTypingDone:
		b.HideTyping()
	case OpBubble:
		b.AppendBubble(op.Role, op.Text)
	case OpText:
		b.SetText(op.Index, op.Text)
	case OpScroll:
		b.ScrollToLatest()
	}
}

func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bubbles = nil
	b.typing = false
	b.scrollTop = 0
}

func (b *Board) ShowTyping() {
	b.mu.Lock()
	b.typing = true
	b.mu.Unlock()
}

func (b *Board) HideTyping() {
	b.mu.Lock()
	b.typing = false
	b.mu.Unlock()
}

func (b *Board) AppendBubble(role Role, text string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bubbles = append(b.bubbles, Bubble{Role: role, Text: text})
	return len(b.bubbles) - 1
}

func (b *Board) SetText(index int, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.bubbles) {
		return
	}
	b.bubbles[index].Text = text
}

func (b *Board) ScrollToLatest() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrollTop = b.heightLocked()
}

// heightLocked approximates content height: one unit per bubble, per rune
// and for the typing indicator.
func (b *Board) heightLocked() int {
	h := len(b.bubbles)
	for _, bub := range b.bubbles {
		h += utf8.RuneCountInString(bub.Text)
	}
	if b.typing {
		h++
	}
	return h
}

// Len returns the number of bubbles.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.bubbles)
}

func (b *Board) Snapshot() BoardSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Bubble, len(b.bubbles))
	copy(out, b.bubbles)
	return BoardSnapshot{
		Bubbles:   out,
		Typing:    b.typing,
		ScrollTop: b.scrollTop,
		Height:    b.heightLocked(),
	}
}
