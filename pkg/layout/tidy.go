package layout

// tidyNode carries the Buchheim/Walker bookkeeping for one point.
//
//	z  preliminary breadth position
//	m  modifier propagated to the subtree
//	c  change, s shift: deferred sibling moves
//	t  thread to the next contour node
//	a  ancestor, A default ancestor
//	i  index among siblings
type tidyNode struct {
	p        *Point
	parent   *tidyNode
	children []*tidyNode

	A, a, t    *tidyNode
	z, m, c, s float64
	i          int
}

// separationFunc returns the desired breadth gap between two adjacent points.
type separationFunc func(a, b *tidyNode) float64

// tidyPlace assigns breadth (Y) and depth (X) coordinates to the point tree
// rooted at root so that it fills breadth × depthExtent. It runs in linear time.
func tidyPlace(root *Point, breadth, depthExtent float64, sep separationFunc) {
	t := buildTidy(root)

	post := postOrder(t)
	for _, v := range post {
		firstWalk(v, sep)
	}
	t.parent.m = -t.z
	for i := len(post) - 1; i >= 0; i-- {
		secondWalk(post[i])
	}

	left, right, bottom := t, t, t
	for _, v := range post {
		if v.p.Y < left.p.Y {
			left = v
		}
		if v.p.Y > right.p.Y {
			right = v
		}
		if v.p.Depth > bottom.p.Depth {
			bottom = v
		}
	}
	s := 1.0
	if left != right {
		s = sep(left, right) / 2
	}
	tx := s - left.p.Y
	ky := depthExtent / float64(max(bottom.p.Depth, 1))
	kx := breadth / (right.p.Y + s + tx)
	for _, v := range post {
		v.p.Y = (v.p.Y + tx) * kx
		v.p.X = float64(v.p.Depth) * ky
	}
}

func buildTidy(root *Point) *tidyNode {
	t := &tidyNode{p: root}
	t.a = t
	stack := []*tidyNode{t}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(n.p.Children) == 0 {
			continue
		}
		n.children = make([]*tidyNode, len(n.p.Children))
		for i, cp := range n.p.Children {
			c := &tidyNode{p: cp, parent: n, i: i}
			c.a = c
			n.children[i] = c
			stack = append(stack, c)
		}
	}
	wrapper := &tidyNode{children: []*tidyNode{t}}
	wrapper.a = wrapper
	t.parent = wrapper
	return t
}

// postOrder lists the tree with children before parents and siblings left to
// right. Reversing it gives a pre-order.
func postOrder(root *tidyNode) []*tidyNode {
	var rev []*tidyNode
	stack := []*tidyNode{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rev = append(rev, n)
		stack = append(stack, n.children...)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

func firstWalk(v *tidyNode, sep separationFunc) {
	siblings := v.parent.children
	var w *tidyNode
	if v.i > 0 {
		w = siblings[v.i-1]
	}
	if len(v.children) > 0 {
		executeShifts(v)
		mid := (v.children[0].z + v.children[len(v.children)-1].z) / 2
		if w != nil {
			v.z = w.z + sep(v, w)
			v.m = v.z - mid
		} else {
			v.z = mid
		}
	} else if w != nil {
		v.z = w.z + sep(v, w)
	}
	anc := v.parent.A
	if anc == nil {
		anc = siblings[0]
	}
	v.parent.A = apportion(v, w, anc, sep)
}

func secondWalk(v *tidyNode) {
	v.p.Y = v.z + v.parent.m
	v.m += v.parent.m
}

func apportion(v, w, ancestor *tidyNode, sep separationFunc) *tidyNode {
	if w == nil {
		return ancestor
	}
	vip, vop := v, v
	vim := w
	vom := vip.parent.children[0]
	sip, sop := vip.m, vop.m
	sim, som := vim.m, vom.m
	for {
		vim = nextRight(vim)
		vip = nextLeft(vip)
		if vim == nil || vip == nil {
			break
		}
		vom = nextLeft(vom)
		vop = nextRight(vop)
		vop.a = v
		shift := vim.z + sim - vip.z - sip + sep(vim, vip)
		if shift > 0 {
			moveSubtree(nextAncestor(vim, v, ancestor), v, shift)
			sip += shift
			sop += shift
		}
		sim += vim.m
		sip += vip.m
		som += vom.m
		sop += vop.m
	}
	if vim != nil && nextRight(vop) == nil {
		vop.t = vim
		vop.m += sim - sop
	}
	if vip != nil && nextLeft(vom) == nil {
		vom.t = vip
		vom.m += sip - som
		ancestor = v
	}
	return ancestor
}

func nextLeft(v *tidyNode) *tidyNode {
	if len(v.children) > 0 {
		return v.children[0]
	}
	return v.t
}

func nextRight(v *tidyNode) *tidyNode {
	if len(v.children) > 0 {
		return v.children[len(v.children)-1]
	}
	return v.t
}

func moveSubtree(wm, wp *tidyNode, shift float64) {
	change := shift / float64(wp.i-wm.i)
	wp.c -= change
	wp.s += shift
	wm.c += change
	wp.z += shift
	wp.m += shift
}

func executeShifts(v *tidyNode) {
	var shift, change float64
	for i := len(v.children) - 1; i >= 0; i-- {
		w := v.children[i]
		w.z += shift
		w.m += shift
		change += w.c
		shift += w.s + change
	}
}

func nextAncestor(vim, v, ancestor *tidyNode) *tidyNode {
	if vim.a.parent == v.parent {
		return vim.a
	}
	return ancestor
}
