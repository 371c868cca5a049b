package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"golang.org/x/term"

	"github.com/wippyai/valuebox/boundary"
	"github.com/wippyai/valuebox/handle"
	"github.com/wippyai/valuebox/wasmhost"
)

// guest is a compiled module instantiated against the valuebox host module.
type guest struct {
	rt  wazero.Runtime
	mod api.Module
}

func startGuest(ctx context.Context, b *boundary.Boundary, data []byte) (*guest, error) {
	rt := wazero.NewRuntime(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate WASI: %w", err)
	}
	if _, err := wasmhost.Build(ctx, rt, b); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	compiled, err := rt.CompileModule(ctx, data)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("compile: %w", err)
	}

	config := wazero.NewModuleConfig().
		WithStdout(os.Stdout).
		WithStderr(os.Stderr).
		WithStartFunctions()
	mod, err := rt.InstantiateModule(ctx, compiled, config)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("instantiate: %w", err)
	}
	return &guest{rt: rt, mod: mod}, nil
}

// Call runs name, or _start when name is empty. A WASI exit with code 0 is
// not an error.
func (g *guest) Call(ctx context.Context, name string) error {
	if name == "" {
		name = "_start"
	}
	fn := g.mod.ExportedFunction(name)
	if fn == nil {
		return fmt.Errorf("guest does not export %q", name)
	}

	fmt.Printf("Calling %s()...\n", name)
	results, err := fn.Call(ctx)
	if err != nil {
		if exit, ok := err.(*sys.ExitError); ok && exit.ExitCode() == 0 {
			return nil
		}
		return fmt.Errorf("call %s: %w", name, err)
	}
	if len(results) > 0 {
		fmt.Printf("Result: %v\n", results)
	}
	return nil
}

func (g *guest) Close(ctx context.Context) {
	_ = g.rt.Close(ctx)
}

func printFunctions(w io.Writer) {
	fmt.Fprintf(w, "Host module %q:\n", wasmhost.ModuleName)
	for _, sig := range wasmhost.Functions() {
		fmt.Fprintf(w, "  %s\n", sig)
	}
	fmt.Fprintf(w, "\nElement types:\n")
	for _, el := range wasmhost.Elements() {
		fmt.Fprintf(w, "  %-4s size=%d align=%d core=%s\n", el.Name, el.Size, el.Align, api.ValueTypeName(el.Core))
	}
}

func printLeaks(w io.Writer, leaks []handle.Info) {
	if len(leaks) == 0 {
		fmt.Fprintln(w, "No live handles.")
		return
	}
	sort.Slice(leaks, func(i, j int) bool { return leaks[i].Address < leaks[j].Address })
	fmt.Fprintf(w, "%d live handle(s) were not released:\n", len(leaks))
	for _, info := range leaks {
		state := "populated"
		if !info.Populated {
			state = "empty"
		}
		fmt.Fprintf(w, "  %#016x  %-28s %s\n", uint64(info.Address), info.TypeName, state)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
