package force

import "gonum.org/v1/gonum/spatial/r2"

// DragStart begins a drag on body i at pointer position p. The first active
// drag raises the heat to DragAlphaTarget. Anchors keep their pin.
func (s *Simulation) DragStart(i int, p r2.Vec) error {
	if err := s.check(i); err != nil {
		return err
	}
	b := &s.bodies[i]
	if b.dragging {
		return nil
	}
	if s.drags == 0 && !s.stopped {
		s.alphaTarget = s.cfg.DragAlphaTarget
		if s.alpha < s.alphaTarget {
			s.alpha = s.alphaTarget
		}
	}
	s.drags++
	b.dragging = true
	if !b.Anchor {
		b.Pin = &p
	}
	return nil
}

// DragMove moves the pin of a dragged body. The simulation picks the new
// position up on its next tick. Idle bodies and anchors are unaffected.
func (s *Simulation) DragMove(i int, p r2.Vec) error {
	if err := s.check(i); err != nil {
		return err
	}
	b := &s.bodies[i]
	if !b.dragging || b.Anchor {
		return nil
	}
	b.Pin = &p
	return nil
}

// DragEnd finishes a drag on body i and releases its pin unless it is an
// anchor. Ending the last active drag lets the heat decay to rest.
func (s *Simulation) DragEnd(i int) error {
	if err := s.check(i); err != nil {
		return err
	}
	b := &s.bodies[i]
	if !b.dragging {
		return nil
	}
	b.dragging = false
	s.drags--
	if s.drags == 0 {
		s.alphaTarget = 0
	}
	if !b.Anchor {
		b.Pin = nil
	}
	return nil
}

// ActiveDrags returns the number of bodies currently being dragged.
func (s *Simulation) ActiveDrags() int { return s.drags }
