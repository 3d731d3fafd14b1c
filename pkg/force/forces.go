package force

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// applyLinks pulls linked bodies toward LinkDistance. The correction is split
// by degree so hubs move less than leaves.
func (s *Simulation) applyLinks() {
	for i, l := range s.links {
		src, dst := &s.bodies[l.Source], &s.bodies[l.Target]
		d := r2.Sub(r2.Add(dst.Pos, dst.Vel), r2.Add(src.Pos, src.Vel))
		if d.X == 0 {
			d.X = s.jiggle()
		}
		if d.Y == 0 {
			d.Y = s.jiggle()
		}
		n := r2.Norm(d)
		k := (n - s.cfg.LinkDistance) / n * s.alpha * s.cfg.LinkStrength
		d = r2.Scale(k, d)
		b := s.bias[i]
		dst.Vel = r2.Sub(dst.Vel, r2.Scale(b, d))
		src.Vel = r2.Add(src.Vel, r2.Scale(1-b, d))
	}
}

// applyManyBody applies exact pairwise charge. Graphs here are a single
// table's neighbourhood, small enough that O(n²) stays within a frame.
func (s *Simulation) applyManyBody() {
	if s.cfg.Charge == 0 {
		return
	}
	for i := range s.bodies {
		bi := &s.bodies[i]
		for j := i + 1; j < len(s.bodies); j++ {
			bj := &s.bodies[j]
			d := r2.Sub(bj.Pos, bi.Pos)
			if d.X == 0 {
				d.X = s.jiggle()
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
			}
			l := r2.Norm2(d)
			if l < distanceMin2 {
				l = math.Sqrt(distanceMin2 * l)
			}
			w := s.cfg.Charge * s.alpha / l
			bi.Vel = r2.Add(bi.Vel, r2.Scale(w, d))
			bj.Vel = r2.Sub(bj.Vel, r2.Scale(w, d))
		}
	}
}

// applyCenter nudges every body toward the centre.
func (s *Simulation) applyCenter() {
	k := s.cfg.CenterStrength * s.alpha
	if k == 0 {
		return
	}
	for i := range s.bodies {
		b := &s.bodies[i]
		b.Vel = r2.Add(b.Vel, r2.Scale(k, r2.Sub(s.center, b.Pos)))
	}
}

// applyCollide pushes apart bodies whose predicted positions overlap.
func (s *Simulation) applyCollide() {
	for i := range s.bodies {
		bi := &s.bodies[i]
		if bi.Radius <= 0 {
			continue
		}
		for j := i + 1; j < len(s.bodies); j++ {
			bj := &s.bodies[j]
			r := bi.Radius + bj.Radius
			d := r2.Sub(r2.Add(bi.Pos, bi.Vel), r2.Add(bj.Pos, bj.Vel))
			l2 := r2.Norm2(d)
			if l2 >= r*r {
				continue
			}
			if d.X == 0 {
				d.X = s.jiggle()
				l2 += d.X * d.X
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
				l2 += d.Y * d.Y
			}
			l := math.Sqrt(l2)
			f := (r - l) / l
			ri2, rj2 := bi.Radius*bi.Radius, bj.Radius*bj.Radius
			share := rj2 / (ri2 + rj2)
			bi.Vel = r2.Add(bi.Vel, r2.Scale(f*share, d))
			bj.Vel = r2.Sub(bj.Vel, r2.Scale(f*(1-share), d))
		}
	}
}
