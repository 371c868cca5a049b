// Package handle provides opaque handles to Go values for callers on the
// other side of an untyped boundary.
//
// A handle owns exactly one value of a statically known type and is
// identified by an Address, a 64-bit integer that can cross any boundary
// that only understands primitive values. The foreign caller holds the
// address and passes it back on every call; the library resolves it through
// the Table, operates on the value and hands back primitives.
//
// # Handle Lifecycle
//
//	populated -- Take --> empty -- Replace --> populated
//	    |                   |
//	    +----- Release -----+---> destroyed (address invalid)
//
// Every operation except Release resolves the address for the duration of
// one call and never destroys the handle. Release is the only operation
// that gives the address up for good: it unlinks the slot and, if the handle
// is populated, drops the value (calling Drop on values that implement
// Dropper).
//
//	table := handle.NewTable()
//
//	addr := handle.New(table, buffer.FromSlice([]byte{1, 2, 3}))
//
//	n, err := handle.With(table, addr, func(b *buffer.Buffer[byte]) int {
//	    return b.Len()
//	})
//
//	v, err := handle.Take[buffer.Buffer[byte]](table, addr) // handle now empty
//	err = handle.Release[buffer.Buffer[byte]](table, addr)
//
// # Failure Modes
//
// A null address fails with errors.KindNullPointer, an emptied handle with
// errors.KindNoValue. Resolving a handle as the wrong type fails with
// errors.KindTypeMismatch. Addresses carry the generation of their slot, so
// an address used after Release fails with errors.KindStaleHandle instead of
// silently aliasing a newer handle; this is a diagnostic, the contract still
// forbids touching released addresses.
//
// # Memory Management
//
// Handles are not reference counted or garbage collected. The caller that
// created a handle must release it, otherwise the value stays reachable from
// the table for the table's lifetime. Close releases everything that is left.
//
// # Thread Safety
//
// The Table may be used from many goroutines. A single handle is a
// single-owner value: concurrent operations on the same address are out of
// contract and must be serialized by the caller.
package handle
