// Package wasmhost exposes a boundary.Boundary to WebAssembly guests as a
// wazero host module named "valuebox".
//
// Handles travel as i64 addresses. Lengths, indexes and guest pointers are
// i32, and buffer elements use the flat core type of their WIT primitive
// (u8 and u32 as i32, f32 as f32). Guest pointers are offsets into the
// calling module's linear memory:
//
//   - <t>_buffer_create_from_view wraps guest memory without copying, so
//     writes through the handle are visible to the guest
//   - <t>_buffer_copy_into_raw and string_copy_into_raw write into guest memory
//   - string_create_* copy their input out of guest memory
//   - <t>_buffer_get_data returns the guest offset of a view and 0 for
//     buffers that live in host memory
//
// Failed calls return 0 and are logged by the boundary. An element index
// out of range traps the guest.
//
// Usage:
//
//	rt := wazero.NewRuntime(ctx)
//	b := boundary.New(boundary.DefaultOptions())
//	if _, err := wasmhost.Build(ctx, rt, b); err != nil {
//		return err
//	}
//	guest, err := rt.Instantiate(ctx, wasmBytes)
package wasmhost
