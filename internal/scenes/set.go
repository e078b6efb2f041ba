package scenes

import "fmt"

// Set is an ordered, editable sequence of scene descriptions bound to a
// desired scene count. Changing the count while a sequence exists clears it
// rather than truncating or padding silently; the user must regenerate.
type Set struct {
	count  int
	scenes []string
}

// NewSet creates an empty set with the given desired count.
func NewSet(count int) *Set {
	return &Set{count: count}
}

// Count returns the desired scene count.
func (s *Set) Count() int {
	return s.count
}

// Scenes returns a copy of the current sequence.
func (s *Set) Scenes() []string {
	out := make([]string, len(s.scenes))
	copy(out, s.scenes)
	return out
}

// SetCount changes the desired count. An existing sequence is cleared when
// the count actually changes.
func (s *Set) SetCount(n int) {
	if n == s.count {
		return
	}
	s.count = n
	s.scenes = nil
}

// Replace installs a freshly generated sequence, discarding any edits.
func (s *Set) Replace(scenes []string) {
	s.scenes = make([]string, len(scenes))
	copy(s.scenes, scenes)
}

// Edit updates one scene in place by index.
func (s *Set) Edit(i int, text string) error {
	if i < 0 || i >= len(s.scenes) {
		return fmt.Errorf("scene index %d out of range (have %d scenes)", i, len(s.scenes))
	}
	s.scenes[i] = text
	return nil
}

// Ready reports whether the sequence matches the desired count and can back
// a long-form submission.
func (s *Set) Ready() bool {
	return s.count >= 2 && len(s.scenes) == s.count
}
