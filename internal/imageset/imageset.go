// Package imageset models the ordered image list an operator composes for a
// product. Mutations keep DisplayOrder a contiguous sequence starting at 0.
package imageset

// Entry is one gallery image reference at a position.
type Entry struct {
	ImageID      uint
	DisplayOrder int
}

// Set is an explicit ordered-list state object. The zero value is an empty
// set.
type Set struct {
	entries []Entry
}

// New builds a Set from gallery image IDs in the given order.
func New(imageIDs ...uint) *Set {
	s := &Set{}
	for _, id := range imageIDs {
		s.Add(id)
	}
	return s
}

// Add appends an image at the next display-order value. Duplicates are
// ignored so re-selecting an image is a no-op.
func (s *Set) Add(imageID uint) {
	for _, e := range s.entries {
		if e.ImageID == imageID {
			return
		}
	}
	s.entries = append(s.entries, Entry{ImageID: imageID, DisplayOrder: len(s.entries)})
}

// Remove drops the image and renumbers the remainder contiguously,
// preserving relative order. Returns false when the image was not present.
func (s *Set) Remove(imageID uint) bool {
	idx := -1
	for i, e := range s.entries {
		if e.ImageID == imageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.renumber()
	return true
}

// Move relocates the entry at position from to position to, shifting the
// entries in between. Out-of-range positions are clamped.
func (s *Set) Move(from, to int) {
	n := len(s.entries)
	if n == 0 {
		return
	}
	from = clamp(from, n)
	to = clamp(to, n)
	if from == to {
		return
	}
	e := s.entries[from]
	s.entries = append(s.entries[:from], s.entries[from+1:]...)
	s.entries = append(s.entries[:to], append([]Entry{e}, s.entries[to:]...)...)
	s.renumber()
}

// Entries returns the ordered snapshot.
func (s *Set) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// IDs returns the image IDs in display order.
func (s *Set) IDs() []uint {
	out := make([]uint, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.ImageID
	}
	return out
}

func (s *Set) Len() int { return len(s.entries) }

func (s *Set) renumber() {
	for i := range s.entries {
		s.entries[i].DisplayOrder = i
	}
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
