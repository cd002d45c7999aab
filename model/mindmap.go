package model

import (
	"errors"
	"fmt"
	"sort"

	"mentis/geometry"
)

// ErrInvalidReference is returned when an edge operation names a node index
// that does not resolve to a live node.
var ErrInvalidReference = errors.New("invalid node reference")

// Version identifies the document format revision written by this build.
const Version = "1.0"

// MindMap is the aggregate document: the complete set of nodes and edges,
// document-level style defaults and the modified-since-save flag. All
// mutation happens on the event loop thread, so no locking is needed.
type MindMap struct {
	nodes     map[int]*Node
	edges     []*Edge
	defaults  Defaults
	modified  bool
	nextIndex int
	version   string
}

// NewMindMap creates an empty document with default styles.
func NewMindMap() *MindMap {
	return &MindMap{
		nodes:    make(map[int]*Node),
		defaults: DefaultStyle(),
		version:  Version,
	}
}

// CreateNode allocates a new node at the given position, assigns the next
// unused index and returns it.
func (m *MindMap) CreateNode(position geometry.Point) int {
	index := m.nextIndex
	m.nextIndex++
	m.nodes[index] = &Node{
		Index:        index,
		Position:     position,
		Size:         geometry.Size{Width: 120, Height: 60},
		CornerRadius: m.defaults.CornerRadius,
	}
	m.modified = true
	return index
}

// AddNode inserts a fully formed node, used when loading a document or
// restoring a snapshot. The index counter is bumped past the node's index so
// indices are never reused.
func (m *MindMap) AddNode(node *Node) error {
	if _, ok := m.nodes[node.Index]; ok {
		return fmt.Errorf("duplicate node index %d", node.Index)
	}
	m.nodes[node.Index] = node
	if node.Index >= m.nextIndex {
		m.nextIndex = node.Index + 1
	}
	return nil
}

// CreateEdge connects two live nodes and returns the edge. Duplicate directed
// edges are not prevented here; the scene performs a soft check before
// creation.
func (m *MindMap) CreateEdge(sourceIndex, targetIndex int) (*Edge, error) {
	if _, ok := m.nodes[sourceIndex]; !ok {
		return nil, fmt.Errorf("source %d: %w", sourceIndex, ErrInvalidReference)
	}
	if _, ok := m.nodes[targetIndex]; !ok {
		return nil, fmt.Errorf("target %d: %w", targetIndex, ErrInvalidReference)
	}
	edge := &Edge{
		SourceIndex: sourceIndex,
		TargetIndex: targetIndex,
		ArrowMode:   m.defaults.ArrowMode,
		Width:       m.defaults.EdgeWidth,
	}
	m.edges = append(m.edges, edge)
	m.modified = true
	return edge, nil
}

// AddEdge inserts an existing edge, used when loading a document. The
// endpoints must resolve to live nodes.
func (m *MindMap) AddEdge(edge *Edge) error {
	if _, ok := m.nodes[edge.SourceIndex]; !ok {
		return fmt.Errorf("source %d: %w", edge.SourceIndex, ErrInvalidReference)
	}
	if _, ok := m.nodes[edge.TargetIndex]; !ok {
		return fmt.Errorf("target %d: %w", edge.TargetIndex, ErrInvalidReference)
	}
	m.edges = append(m.edges, edge)
	return nil
}

// DeleteNode removes the node and cascades to every edge referencing it.
// Deleting an absent index is a no-op so undo/redo replay stays idempotent.
func (m *MindMap) DeleteNode(index int) {
	if _, ok := m.nodes[index]; !ok {
		return
	}
	delete(m.nodes, index)
	kept := m.edges[:0]
	for _, e := range m.edges {
		if e.SourceIndex != index && e.TargetIndex != index {
			kept = append(kept, e)
		}
	}
	m.edges = kept
	m.modified = true
}

// DeleteEdge removes every edge matching the directed pair. No-op when none
// match.
func (m *MindMap) DeleteEdge(sourceIndex, targetIndex int) {
	removed := false
	kept := m.edges[:0]
	for _, e := range m.edges {
		if e.SourceIndex == sourceIndex && e.TargetIndex == targetIndex {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	m.edges = kept
	if removed {
		m.modified = true
	}
}

// NodeByIndex looks a node up by index. Absence is a normal outcome, not an
// error: callers probe freely after undo/redo and drags.
func (m *MindMap) NodeByIndex(index int) (*Node, bool) {
	node, ok := m.nodes[index]
	return node, ok
}

// Nodes returns the live nodes ordered by index.
func (m *MindMap) Nodes() []*Node {
	indices := make([]int, 0, len(m.nodes))
	for i := range m.nodes {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	nodes := make([]*Node, 0, len(indices))
	for _, i := range indices {
		nodes = append(nodes, m.nodes[i])
	}
	return nodes
}

// Edges returns the edges in creation order.
func (m *MindMap) Edges() []*Edge {
	return m.edges
}

// NodeCount returns the number of live nodes.
func (m *MindMap) NodeCount() int {
	return len(m.nodes)
}

// EdgeCount returns the number of edges.
func (m *MindMap) EdgeCount() int {
	return len(m.edges)
}

// Defaults returns the document-level style defaults.
func (m *MindMap) Defaults() Defaults {
	return m.defaults
}

// SetDefaults replaces the document-level style defaults.
func (m *MindMap) SetDefaults(d Defaults) {
	m.defaults = d
	m.modified = true
}

// IsModified reports whether the document changed since the last save.
func (m *MindMap) IsModified() bool {
	return m.modified
}

// SetModified sets the modified flag directly. Used by save (clear) and by
// snapshot restore (restore the recorded value).
func (m *MindMap) SetModified(modified bool) {
	m.modified = modified
}

// FileVersion returns the format revision the document was loaded from, or
// the current Version for new documents.
func (m *MindMap) FileVersion() string {
	return m.version
}

// SetFileVersion records the format revision of a loaded document.
func (m *MindMap) SetFileVersion(v string) {
	m.version = v
}

// SetNodeText updates a node's text and marks the document modified. No-op
// for an absent index.
func (m *MindMap) SetNodeText(index int, text string) {
	if node, ok := m.nodes[index]; ok {
		node.Text = text
		m.modified = true
	}
}

// SetNodePosition moves a node and marks the document modified. No-op for an
// absent index.
func (m *MindMap) SetNodePosition(index int, position geometry.Point) {
	if node, ok := m.nodes[index]; ok {
		node.Position = position
		m.modified = true
	}
}

// Clone returns an immutable-by-convention deep copy of the document,
// including the modified flag, for use as an undo snapshot.
func (m *MindMap) Clone() *MindMap {
	clone := &MindMap{
		nodes:     make(map[int]*Node, len(m.nodes)),
		edges:     make([]*Edge, len(m.edges)),
		defaults:  m.defaults,
		modified:  m.modified,
		nextIndex: m.nextIndex,
		version:   m.version,
	}
	for i, n := range m.nodes {
		clone.nodes[i] = n.Clone()
	}
	for i, e := range m.edges {
		edge := *e
		clone.edges[i] = &edge
	}
	return clone
}

// Equal compares two documents by value: nodes, edges, defaults. The modified
// flag and index counter are excluded so a saved document compares equal to
// its just-loaded twin.
func (m *MindMap) Equal(o *MindMap) bool {
	if len(m.nodes) != len(o.nodes) || len(m.edges) != len(o.edges) {
		return false
	}
	if m.defaults != o.defaults {
		return false
	}
	for i, n := range m.nodes {
		on, ok := o.nodes[i]
		if !ok {
			return false
		}
		if !nodeEqual(n, on) {
			return false
		}
	}
	for i, e := range m.edges {
		if *e != *o.edges[i] {
			return false
		}
	}
	return true
}

func nodeEqual(a, b *Node) bool {
	if a.Index != b.Index || a.Text != b.Text || a.Position != b.Position ||
		a.ImagePath != b.ImagePath || a.Size != b.Size || a.CornerRadius != b.CornerRadius {
		return false
	}
	if !colorEqual(a.Color, b.Color) || !colorEqual(a.TextColor, b.TextColor) {
		return false
	}
	return true
}

func colorEqual(a, b *Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
