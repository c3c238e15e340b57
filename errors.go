// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package splaymap

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrComparison is returned when a key cannot be ordered: the map has no
	// comparison function, or the key is nil.
	ErrComparison = errors.New("splaymap: keys cannot be compared")

	// ErrConcurrentModification is returned by an Iterator when the map was
	// structurally modified other than through that Iterator.
	ErrConcurrentModification = errors.New("splaymap: concurrent modification")

	// ErrEmpty is returned by FirstKey and LastKey on an empty map.
	ErrEmpty = errors.New("splaymap: map is empty")

	// ErrIllegalState is returned by Iterator.Remove when it is not
	// immediately preceded by a successful call to Next.
	ErrIllegalState = errors.New("splaymap: illegal iterator state")

	// ErrExhausted is returned by Iterator.Next when there are no more entries.
	ErrExhausted = errors.New("splaymap: iteration exhausted")
)

// checkKey reports an error if key cannot be passed to cmp.
// It runs before any structural change to the tree.
func checkKey[K any](cmp func(K, K) int, key K) error {
	if cmp == nil {
		return fmt.Errorf("%w: nil comparison function", ErrComparison)
	}
	if isNil(key) {
		return fmt.Errorf("%w: nil key", ErrComparison)
	}
	return nil
}

// isNil reports whether k is the nil value of a nilable kind.
func isNil[K any](k K) bool {
	v := reflect.ValueOf(&k).Elem()
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}
