package klv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildContainer wraps a nested KLV stream in a container item.
func buildContainer(key string, children ...[]byte) []byte {
	var body []byte
	for _, c := range children {
		body = append(body, c...)
	}
	return buildItem(key, TypeNested, 1, uint16(len(body)), body)
}

func TestProjectSiblingOrder(t *testing.T) {
	t.Parallel()

	strm := func(name string) []byte {
		return buildContainer("STRM", buildItem("STNM", 'c', 1, uint16(len(name)), []byte(name)))
	}
	stream := buildContainer("DEVC", strm("one"), strm("two"), strm("three"))

	tree, err := Project(stream)
	require.NoError(t, err)

	devs := tree.Branches(DEVC)
	require.Len(t, devs, 1)

	strms := devs[0].Nodes(STRM)
	require.Len(t, strms, 3)
	for i, want := range []string{"one", "two", "three"} {
		sub, ok := strms[i].(Branch)
		require.True(t, ok)
		it, ok := sub.FirstItem(STNM)
		require.True(t, ok)
		require.Equal(t, want, it.Text())
	}
}

func TestProjectHeterogeneousSequence(t *testing.T) {
	t.Parallel()

	// The same key once as a leaf and once as a container; both survive in
	// appearance order.
	leaf := buildItem("STRM", 'L', 4, 1, []byte{0, 0, 0, 7})
	cont := buildContainer("STRM", buildItem("GPSF", 'L', 4, 1, []byte{0, 0, 0, 3}))
	tree, err := Project(append(leaf, cont...))
	require.NoError(t, err)

	nodes := tree.Nodes(STRM)
	require.Len(t, nodes, 2)
	_, isLeaf := nodes[0].(Leaf)
	require.True(t, isLeaf)
	_, isBranch := nodes[1].(Branch)
	require.True(t, isBranch)
}

func TestProjectEmptyContainer(t *testing.T) {
	t.Parallel()

	tree, err := Project(buildItem("STRM", TypeNested, 0, 0, nil))
	require.NoError(t, err)

	nodes := tree.Nodes(STRM)
	require.Len(t, nodes, 1)
	sub, ok := nodes[0].(Branch)
	require.True(t, ok)
	require.Empty(t, sub)
}

func TestProjectDepthCap(t *testing.T) {
	t.Parallel()

	inner := buildItem("GPSF", 'L', 4, 1, []byte{0, 0, 0, 1})
	for i := 0; i < maxDepth+2; i++ {
		inner = buildContainer("DEVC", inner)
	}
	_, err := Project(inner)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestProjectUnknownTypeRetained(t *testing.T) {
	t.Parallel()

	stream := append(
		buildItem("GPSA", '@', 4, 1, []byte{'A', 'B', 'C', 'D'}),
		buildItem("GPSF", 'L', 4, 1, []byte{0, 0, 0, 2})...,
	)
	tree, err := Project(stream)
	require.NoError(t, err)

	it, ok := tree.FirstItem(GPSA)
	require.True(t, ok)
	require.Equal(t, []byte{'A', 'B', 'C', 'D'}, it.Data())
	require.Nil(t, it.Float64sAny(), "unknown type is not interpreted")

	fix, ok := tree.FirstItem(GPSF)
	require.True(t, ok)
	v, ok := fix.FirstUint32()
	require.True(t, ok)
	require.Equal(t, uint32(2), v)
}
