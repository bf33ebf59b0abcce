package drive

type Frame struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Breadcrumbs is the navigation trail of the picker. The bottom frame is the
// Drive root and is never popped.
type Breadcrumbs struct {
	frames []Frame
}

func NewBreadcrumbs() *Breadcrumbs {
	return &Breadcrumbs{frames: []Frame{{ID: RootFolderID, Name: RootFolderName}}}
}

func (b *Breadcrumbs) Push(f Frame) { b.frames = append(b.frames, f) }

// Pop removes the top frame and returns the new top. At the root it is a no-op.
func (b *Breadcrumbs) Pop() Frame {
	if len(b.frames) > 1 {
		b.frames = b.frames[:len(b.frames)-1]
	}
	return b.Peek()
}

func (b *Breadcrumbs) Peek() Frame { return b.frames[len(b.frames)-1] }

func (b *Breadcrumbs) Len() int { return len(b.frames) }

// TruncateTo keeps frames up to and including index i, as when a breadcrumb
// link is clicked. Out of range indexes are ignored.
func (b *Breadcrumbs) TruncateTo(i int) {
	if i < 0 || i >= len(b.frames) {
		return
	}
	b.frames = b.frames[:i+1]
}

func (b *Breadcrumbs) Frames() []Frame {
	out := make([]Frame, len(b.frames))
	copy(out, b.frames)
	return out
}
