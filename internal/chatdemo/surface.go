package chatdemo

import "sync"

// Surface is the append-only visual log a Player renders onto.
type Surface interface {
	Clear()
	ShowTyping()
	HideTyping()
	// AppendBubble adds a bubble and returns its index on the surface.
	AppendBubble(role Role, text string) int
	SetText(index int, text string)
	ScrollToLatest()
}

// OpKind names a single surface mutation.
type OpKind string

const (
	OpClear      OpKind = "clear"
	OpTyping     OpKind = "typing"
	OpTypingDone OpKind = "typing_done"
	OpBubble     OpKind = "bubble"
	OpText       OpKind = "text"
	OpScroll     OpKind = "scroll"
)

// Op is a surface mutation as data, so it can cross a socket or a tea.Program.
type Op struct {
	Kind  OpKind `json:"kind"`
	Index int    `json:"index,omitempty"`
	Role  Role   `json:"role,omitempty"`
	Text  string `json:"text,omitempty"`
}

// OpSurface turns Surface calls into Ops delivered to a sink.
type OpSurface struct {
	sink func(Op)

	mu   sync.Mutex
	next int
}

// NewOpSurface returns a Surface that forwards every mutation to sink.
func NewOpSurface(sink func(Op)) *OpSurface {
	return &OpSurface{sink: sink}
}

func (s *OpSurface) Clear() {
	s.mu.Lock()
	s.next = 0
	s.mu.Unlock()
	s.sink(Op{Kind: OpClear})
}

func (s *OpSurface) ShowTyping() { s.sink(Op{Kind: OpTyping}) }

func (s *OpSurface) HideTyping() { s.sink(Op{Kind: OpTypingDone}) }

func (s *OpSurface) AppendBubble(role Role, text string) int {
	s.mu.Lock()
	idx := s.next
	s.next++
	s.mu.Unlock()
	s.sink(Op{Kind: OpBubble, Index: idx, Role: role, Text: text})
	return idx
}

func (s *OpSurface) SetText(index int, text string) {
	s.sink(Op{Kind: OpText, Index: index, Text: text})
}

func (s *OpSurface) ScrollToLatest() { s.sink(Op{Kind: OpScroll}) }
