// Package buffer provides a growable, contiguous, element-typed buffer that
// either owns its storage or borrows memory owned by a foreign caller.
//
// The owned/view distinction is explicit: FromSlice, Filled, FromCopy and New
// produce owned buffers; FromView, FromPointer and ViewBytes produce views.
// Dropping an owned buffer releases its storage, dropping a view leaves the
// foreign memory untouched.
//
//	b := buffer.Filled[byte](0, 4)
//	b.Put(0, 0xFF)
//	dst := buffer.FromView(make([]byte, 8))
//	err := b.CopyInto(&dst)
//
// Buffers are usually boxed in a handle so they can cross the boundary; a
// Buffer implements handle.Dropper through Drop and is deep-copied through
// Clone. Element access is bounds-checked and panics on violation.
package buffer
