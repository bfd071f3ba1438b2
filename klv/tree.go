package klv

import "errors"

// ErrMalformed is returned when the nesting depth of the input exceeds the
// hardened bound. GPMF from real cameras nests three levels deep.
var ErrMalformed = errors.New("klv: malformed input")

const maxDepth = 16

// Node is one element of a projected GPMF tree: a Leaf holding a raw item, a
// Branch holding children by key, or a Sequence of either when the same key
// repeats within one parent.
type Node interface {
	node()
}

type Leaf struct {
	Item Item
}

type Branch map[FourCC]Node

type Sequence []Node

func (Leaf) node()     {}
func (Branch) node()   {}
func (Sequence) node() {}

// Project consumes a KLV byte stream and returns its tree. Containers recurse
// into sub-branches; repeated keys are promoted to sequences preserving
// insertion order.
func Project(buf []byte) (Branch, error) {
	return project(buf, 0)
}

func project(buf []byte, depth int) (Branch, error) {
	if depth > maxDepth {
		return nil, ErrMalformed
	}
	tree := Branch{}
	r := NewReader(buf)
	for {
		it, ok := r.Next()
		if !ok {
			return tree, nil
		}
		var n Node
		switch {
		case it.IsContainer() && it.RawSize() > 0:
			sub, err := project(it.Data(), depth+1)
			if err != nil {
				return nil, err
			}
			n = sub
		case it.IsContainer():
			n = Branch{}
		default:
			n = Leaf{Item: it}
		}
		tree.insert(it.Key, n)
	}
}

func (b Branch) insert(key FourCC, n Node) {
	switch prev := b[key].(type) {
	case nil:
		b[key] = n
	case Sequence:
		b[key] = append(prev, n)
	default:
		b[key] = Sequence{prev, n}
	}
}

// Has reports whether key is present.
func (b Branch) Has(key FourCC) bool {
	_, ok := b[key]
	return ok
}

// Nodes returns the children stored under key in insertion order. A single
// child comes back as a one-element slice.
func (b Branch) Nodes(key FourCC) []Node {
	switch n := b[key].(type) {
	case nil:
		return nil
	case Sequence:
		return n
	default:
		return []Node{n}
	}
}

// Branches returns the sub-trees stored under key in insertion order,
// skipping any leaves that share the key.
func (b Branch) Branches(key FourCC) (r []Branch) {
	for _, n := range b.Nodes(key) {
		if sub, ok := n.(Branch); ok {
			r = append(r, sub)
		}
	}
	return
}

// FirstItem returns the first raw item stored under key.
func (b Branch) FirstItem(key FourCC) (Item, bool) {
	for _, n := range b.Nodes(key) {
		if leaf, ok := n.(Leaf); ok {
			return leaf.Item, true
		}
	}
	return Item{}, false
}
