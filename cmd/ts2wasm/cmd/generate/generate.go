// Package generate implements the "generate" subcommand: decode a
// semantics-tree JSON document and lower it to a WebAssembly GC module,
// writing the module's watfmt dump (§1: no binary encoder is in scope,
// only the "specified by the operations consumed from it" wasm.Module
// shape). Grounded on cmd/wit-bindgen-go/cmd/generate's flag/action
// split.
package generate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ts2wasm/ts2wasm-go/codegen"
	"github.com/ts2wasm/ts2wasm-go/internal/treecodec"
	"github.com/ts2wasm/ts2wasm-go/internal/watfmt"
)

// Command is the CLI command for generate.
var Command = &cli.Command{
	Name:  "generate",
	Usage: "lower a semantics-tree JSON document to a WebAssembly GC module dump",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "in",
			Aliases:  []string{"i"},
			Usage:    "input semantics-tree JSON file; defaults to stdin",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     "out",
			Aliases:  []string{"o"},
			Usage:    "output file for the module dump; defaults to stdout",
			OnlyOnce: true,
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "log component cache hits/misses and specialization activity",
		},
	},
	Action: action,
}

func action(ctx context.Context, cmd *cli.Command) error {
	in, err := openInput(cmd.String("in"))
	if err != nil {
		return err
	}
	defer in.Close()

	prog, err := treecodec.Decode(in)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	var opts []codegen.Option
	if cmd.Bool("verbose") {
		opts = append(opts, codegen.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}

	mod, err := codegen.Compile(prog, opts...)
	if err != nil {
		return fmt.Errorf("generate: compiling: %w", err)
	}

	out, closeOut, err := openOutput(cmd.String("out"))
	if err != nil {
		return err
	}
	defer closeOut()

	_, err = io.WriteString(out, watfmt.Dump(mod))
	return err
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("generate: opening input: %w", err)
	}
	return f, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("generate: opening output: %w", err)
	}
	return f, func() { f.Close() }, nil
}
