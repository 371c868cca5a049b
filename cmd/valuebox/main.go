package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/valuebox/boundary"
	"github.com/wippyai/valuebox/pixel"
	"github.com/wippyai/valuebox/wasmhost"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to guest wasm module")
		funcName    = flag.String("func", "", "Guest function to call (default _start)")
		convert     = flag.String("convert", "", "Pixel conversion to apply to -in (argb-to-rgba, bgra-to-argb, rgba-to-argb)")
		inFile      = flag.String("in", "", "Input file for -convert")
		outFile     = flag.String("out", "", "Output file for -convert (default: overwrite -in)")
		list        = flag.Bool("list", false, "List host functions and exit")
		interactive = flag.Bool("i", false, "Inspect live handles after the guest returns")
		configFile  = flag.String("config", "", "Path to TOML config file")
		logLevel    = flag.String("log", "", "Log level, overrides the config file")
		chunks      = flag.Int("chunks", 0, "Parallel pixel chunks, overrides the config file")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *chunks > 0 {
		cfg.Pixel.Chunks = *chunks
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *list {
		printFunctions(os.Stdout)
		return
	}

	if *convert == "" && *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: valuebox -wasm <file.wasm> [-func name] [-i]")
		fmt.Fprintln(os.Stderr, "       valuebox -convert <format> -in <file> [-out file]")
		fmt.Fprintln(os.Stderr, "       valuebox -list")
		os.Exit(1)
	}

	log, err := cfg.Log.buildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	boundary.SetLogger(log.Named("boundary"))
	wasmhost.SetLogger(log.Named("wasmhost"))

	b := boundary.New(boundary.Options{Logger: boundary.Logger(), Pixel: cfg.Pixel})

	if *convert != "" {
		format, err := pixel.ParseFormat(*convert)
		if err == nil {
			err = convertFile(b, format, *inFile, *outFile)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(context.Background(), b, log, *wasmFile, *funcName, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, b *boundary.Boundary, log *zap.Logger, wasmFile, funcName string, interactive bool) error {
	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	g, err := startGuest(ctx, b, data)
	if err != nil {
		return err
	}
	defer g.Close(ctx)

	fmt.Printf("Guest: %s\n", wasmFile)
	if err := g.Call(ctx, funcName); err != nil {
		return err
	}

	if interactive && isTerminal(os.Stdout) {
		if err := runInspector(b, wasmFile); err != nil {
			return err
		}
		return b.Close()
	}

	leaks := b.Live()
	printLeaks(os.Stdout, leaks)
	if len(leaks) > 0 {
		log.Warn("guest leaked handles", zap.Int("count", len(leaks)))
	}
	return b.Close()
}
