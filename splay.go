// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splaymap

import "fmt"

// splay rearranges the subtree rooted at t and returns its new root.
// If key is in the subtree, its node becomes the root.
// Otherwise the root is the last node on the search path for key,
// which holds either the greatest key less than key
// or the least key greater than key.
// The returned root has a nil parent; the caller must reattach it.
//
// This is the top-down splay from Sleator and Tarjan.
// Nodes passed on the way down are hung off two spines:
// the lesser spine collects nodes smaller than key (linked through right),
// the greater spine collects nodes larger than key (linked through left).
// Both spines start at header, which is discarded at the end.
func splay[K, V any](m splayer[K, V], key K, t *node[K, V]) *node[K, V] {
	if t == nil {
		return nil
	}
	var header node[K, V]
	l, r := &header, &header
	x := t
	for {
		c := m.compare(key, x.key)
		if c < 0 {
			if x.left == nil {
				break
			}
			if m.compare(key, x.left.key) < 0 {
				// Zig-zig: rotate right.
				y := x.left
				x.left = y.right
				if x.left != nil {
					x.left.parent = x
				}
				y.right = x
				x.parent = y
				x = y
				if x.left == nil {
					break
				}
			}
			// Link x onto the greater spine.
			r.left = x
			x.parent = r
			r = x
			x = x.left
		} else if c > 0 {
			if x.right == nil {
				break
			}
			if m.compare(key, x.right.key) > 0 {
				// Zig-zig: rotate left.
				y := x.right
				x.right = y.left
				if x.right != nil {
					x.right.parent = x
				}
				y.left = x
				x.parent = y
				x = y
				if x.right == nil {
					break
				}
			}
			// Link x onto the lesser spine.
			l.right = x
			x.parent = l
			l = x
			x = x.right
		} else {
			break
		}
	}

	// Reassemble.
	l.right = x.left
	if x.left != nil {
		x.left.parent = l
	}
	r.left = x.right
	if x.right != nil {
		x.right.parent = r
	}
	x.left = header.right
	if x.left != nil {
		x.left.parent = x
	}
	x.right = header.left
	if x.right != nil {
		x.right.parent = x
	}
	x.parent = nil
	return x
}

// lookup splays m on key and returns the node holding key,
// or nil if key is not in m.
func lookup[K, V any](m splayer[K, V], key K) *node[K, V] {
	t := m.base()
	t.root = splay(m, key, t.root)
	if t.root != nil && m.compare(t.root.key, key) == 0 {
		return t.root
	}
	return nil
}

func put[K, V any](m splayer[K, V], key K, val V) (old V, ok bool) {
	t := m.base()
	if t.root == nil {
		t.root = &node[K, V]{key: key, val: val}
		t.added()
		return old, false
	}
	r := splay(m, key, t.root)
	t.root = r
	c := m.compare(key, r.key)
	if c == 0 {
		old, r.val = r.val, val
		return old, true
	}

	x := &node[K, V]{key: key, val: val}
	if c < 0 {
		// (r a b) becomes (x a (r nil b)).
		x.left = r.left
		r.left = nil
		x.right = r
	} else {
		// (r a b) becomes (x (r a nil) b).
		x.right = r.right
		r.right = nil
		x.left = r
	}
	if x.left != nil {
		x.left.parent = x
	}
	if x.right != nil {
		x.right.parent = x
	}
	t.root = x
	t.added()
	return old, false
}

func remove[K, V any](m splayer[K, V], key K) (old V, ok bool) {
	x := lookup(m, key)
	if x == nil {
		return old, false
	}
	old = x.val
	excise(m, x)
	return old, true
}

// excise removes x from m. x must be the root.
func excise[K, V any](m splayer[K, V], x *node[K, V]) {
	t := m.base()
	if t.root != x {
		panic(fmt.Sprintf("splaymap: excise of non-root key %v", x.key))
	}
	r := x.right
	if x.left != nil {
		// Every key in x.left is less than x.key, so splaying on x.key
		// brings the maximum of x.left to the top. It has no right child.
		x.left.parent = nil
		r = splay(m, x.key, x.left)
		r.right = x.right
		if r.right != nil {
			r.right.parent = r
		}
	}
	if r != nil {
		r.parent = nil
	}
	t.root = r
	x.left, x.right, x.parent = nil, nil, nil
	t.removed()
}

func (t *tree[K, V]) added() {
	t.count++
	t.gen++
}

func (t *tree[K, V]) removed() {
	t.count--
	t.gen++
}

// minNode returns the node in x's subtree with the smallest key.
// x must not be nil.
func (x *node[K, V]) minNode() *node[K, V] {
	for x.left != nil {
		x = x.left
	}
	return x
}

// maxNode returns the node in x's subtree with the largest key.
// x must not be nil.
func (x *node[K, V]) maxNode() *node[K, V] {
	for x.right != nil {
		x = x.right
	}
	return x
}

// next returns the in-order successor of x, or nil if x holds the largest key.
// It does not change the shape of the tree.
func (x *node[K, V]) next() *node[K, V] {
	if x.right != nil {
		return x.right.minNode()
	}
	for x.parent != nil && x.parent.right == x {
		x = x.parent
	}
	return x.parent
}

// successor returns the in-order successor of x.
// If splayAfter is set and there is a successor, it becomes the root.
func successor[K, V any](m splayer[K, V], x *node[K, V], splayAfter bool) *node[K, V] {
	p := x.next()
	if p != nil && splayAfter {
		t := m.base()
		t.root = splay(m, p.key, t.root)
	}
	return p
}

func higher[K, V any](m splayer[K, V], key K) (k K, v V, ok bool) {
	t := m.base()
	if t.root == nil {
		return k, v, false
	}
	t.root = splay(m, key, t.root)
	x := t.root
	if m.compare(x.key, key) <= 0 {
		// x holds key or its predecessor.
		if x = successor(m, x, true); x == nil {
			return k, v, false
		}
	}
	return x.key, x.val, true
}

// firstNode returns the node with the smallest key, or nil if m is empty.
func firstNode[K, V any](m splayer[K, V]) *node[K, V] {
	t := m.base()
	if t.root == nil {
		return nil
	}
	if t.first == nil || t.firstGen != t.gen {
		t.first = t.root.minNode()
		t.firstGen = t.gen
	}
	return t.first
}

// lastNode returns the node with the largest key, or nil if m is empty.
func lastNode[K, V any](m splayer[K, V]) *node[K, V] {
	t := m.base()
	if t.root == nil {
		return nil
	}
	if t.last == nil || t.lastGen != t.gen {
		t.last = t.root.maxNode()
		t.lastGen = t.gen
	}
	return t.last
}

func firstKey[K, V any](m splayer[K, V]) (K, error) {
	if x := firstNode(m); x != nil {
		return x.key, nil
	}
	var zero K
	return zero, ErrEmpty
}

func lastKey[K, V any](m splayer[K, V]) (K, error) {
	if x := lastNode(m); x != nil {
		return x.key, nil
	}
	var zero K
	return zero, ErrEmpty
}
