package segue

// nodeIDCounter is a plain counter (no atomic — segue is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the element segue orchestrates: one entry in the tree of content a
// Stage manages. A single flat struct is used for all nodes; segue carries
// no rendering data, only the geometry, visibility, and attributes the
// transition machinery reads.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Geometry (local position, own size). Global position is the sum of
	// ancestor positions — segue tracks translation only.
	X, Y          float64
	Width, Height float64

	// Visibility & interaction
	Alpha        float64
	Visible      bool
	Interactable bool

	// Metadata
	UserData any
	attrs    map[string]string

	// Transition lifecycle events (dispatched when Params.DispatchEvents is
	// set on the triggering call). Nil by default; zero cost when unused.
	OnTransitionEvent func(TransitionEvent)

	// Internal
	stage       *Stage
	everMounted bool
	disposed    bool
	onAttach    []func()
	onDetach    []func()
}

// NewNode creates a node with default visibility and interaction state.
func NewNode(name string) *Node {
	return &Node{
		ID:           nextNodeID(),
		Name:         name,
		Alpha:        1,
		Visible:      true,
		Interactable: true,
	}
}

// --- Attributes ---

// Attr returns the attribute value for name, empty if unset. Attributes are
// the declarative markup channel: transition code reads "instant" and
// "bypass" from them.
func (n *Node) Attr(name string) string {
	return n.attrs[name]
}

// SetAttr sets an attribute on the node. An empty value deletes it.
func (n *Node) SetAttr(name, value string) {
	if value == "" {
		delete(n.attrs, name)
		return
	}
	if n.attrs == nil {
		n.attrs = map[string]string{}
	}
	n.attrs[name] = value
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("segue: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("segue: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
		child.setStage(nil)
	}
	child.Parent = n
	n.children = append(n.children, child)
	child.setStage(n.stage)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("segue: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	child.setStage(nil)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		child.setStage(nil)
	}
	n.children = n.children[:0]
}

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// Find returns the first node named name in this subtree (depth-first,
// including n itself), or nil.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// --- Mount state ---

// Mounted reports whether the node is currently attached to a stage.
func (n *Node) Mounted() bool {
	return n.stage != nil
}

// EverMounted reports whether the node has been attached to a stage at least
// once. Deferred work (queued idle calls, deferred-start suspense tasks)
// starts on the first mount.
func (n *Node) EverMounted() bool {
	return n.everMounted
}

// Stage returns the stage this node is attached to, nil when detached.
func (n *Node) Stage() *Stage {
	return n.stage
}

// onNextAttach registers fn to run when the node next attaches to a stage.
// If it is already attached, fn runs immediately.
func (n *Node) onNextAttach(fn func()) {
	if n.stage != nil {
		fn()
		return
	}
	n.onAttach = append(n.onAttach, fn)
}

// onNextDetach registers fn to run when the node next detaches (including
// disposal). If it is already detached, fn runs immediately.
func (n *Node) onNextDetach(fn func()) {
	if n.stage == nil {
		fn()
		return
	}
	n.onDetach = append(n.onDetach, fn)
}

// setStage propagates stage attachment through the subtree and fires the
// one-shot attach/detach hooks on every node whose state changed.
func (n *Node) setStage(s *Stage) {
	if n.stage == s {
		return
	}
	n.stage = s
	if s != nil {
		n.everMounted = true
		hooks := n.onAttach
		n.onAttach = nil
		for _, fn := range hooks {
			fn()
		}
	} else {
		hooks := n.onDetach
		n.onDetach = nil
		for _, fn := range hooks {
			fn()
		}
	}
	for _, child := range n.children {
		child.setStage(s)
	}
}

// --- Geometry ---

// GlobalPos returns the node's position in stage coordinates: the sum of its
// own and all ancestors' local positions.
func (n *Node) GlobalPos() Vec2 {
	var p Vec2
	for cur := n; cur != nil; cur = cur.Parent {
		p.X += cur.X
		p.Y += cur.Y
	}
	return p
}

// GlobalBounds returns the node's rectangle in stage coordinates.
func (n *Node) GlobalBounds() Rect {
	p := n.GlobalPos()
	return Rect{X: p.X, Y: p.Y, Width: n.Width, Height: n.Height}
}

// FitTo moves and resizes this node so its global bounds match other's.
// This is the layout-measure-and-fit step a crossfade uses to hand one
// node's geometry to its counterpart.
func (n *Node) FitTo(other *Node) {
	target := other.GlobalBounds()
	var parentPos Vec2
	if n.Parent != nil {
		parentPos = n.Parent.GlobalPos()
	}
	n.X = target.X - parentPos.X
	n.Y = target.Y - parentPos.Y
	n.Width = target.Width
	n.Height = target.Height
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.setStage(nil)
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.attrs = nil
	n.UserData = nil
	n.OnTransitionEvent = nil
	n.onAttach = nil
	n.onDetach = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
