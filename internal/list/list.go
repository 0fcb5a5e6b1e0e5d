// Package list provides a generic intrusive doubly linked list used by the
// eviction policies and the backing store.
//
// Nodes are allocated by the caller (usually kept in a map[key]*Node), so
// every operation is O(1): one map lookup plus a constant number of pointer
// fixes. Head is the front (MRU / newest), tail is the back (LRU / oldest).
package list

// Node is a list element. A node belongs to at most one list at a time.
type Node[T any] struct {
	Value T

	prev *Node[T]
	next *Node[T]
	list *List[T]
}

// Next returns the node behind n (towards the tail), or nil.
func (n *Node[T]) Next() *Node[T] { return n.next }

// Prev returns the node in front of n (towards the head), or nil.
func (n *Node[T]) Prev() *Node[T] { return n.prev }

// List is a doubly linked list of *Node[T]. The zero value is an empty list.
type List[T any] struct {
	head *Node[T]
	tail *Node[T]
	len  int
}

// New returns an empty list.
func New[T any]() *List[T] { return &List[T]{} }

// Len returns the number of linked nodes.
func (l *List[T]) Len() int { return l.len }

// Front returns the head node (or nil if empty).
func (l *List[T]) Front() *Node[T] { return l.head }

// Back returns the tail node (or nil if empty).
func (l *List[T]) Back() *Node[T] { return l.tail }

// Contains reports whether n is currently linked into l.
func (l *List[T]) Contains(n *Node[T]) bool { return n != nil && n.list == l }

// PushFront links a fresh node holding v at the head and returns it.
func (l *List[T]) PushFront(v T) *Node[T] {
	n := &Node[T]{Value: v}
	l.insertFront(n)
	return n
}

// PushBack links a fresh node holding v at the tail and returns it.
func (l *List[T]) PushBack(v T) *Node[T] {
	n := &Node[T]{Value: v}
	n.list = l
	n.next = nil
	n.prev = l.tail
	if l.tail != nil {
		l.tail.next = n
	}
	l.tail = n
	if l.head == nil {
		l.head = n
	}
	l.len++
	return n
}

// MoveToFront promotes n to the head in O(1).
func (l *List[T]) MoveToFront(n *Node[T]) {
	if n.list != l || n == l.head {
		return
	}
	l.unlink(n)
	l.insertFront(n)
}

// Remove detaches n from the list. Removing a node that is not linked
// into l is a no-op.
func (l *List[T]) Remove(n *Node[T]) {
	if n == nil || n.list != l {
		return
	}
	l.unlink(n)
	n.list = nil
}

// Values returns the node values from head to tail.
func (l *List[T]) Values() []T {
	out := make([]T, 0, l.len)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.Value)
	}
	return out
}

// insertFront links n at the head in O(1).
func (l *List[T]) insertFront(n *Node[T]) {
	n.list = l
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.len++
}

// unlink removes n from the chain and fixes head/tail; n.list is left as is.
func (l *List[T]) unlink(n *Node[T]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if l.head == n {
		l.head = n.next
	}
	if l.tail == n {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
	l.len--
}
