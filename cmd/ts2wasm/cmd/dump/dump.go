// Package dump implements the "dump" subcommand: decode a semantics-tree
// JSON document and report its shape (counts of classes, interfaces,
// functions, globals) without running codegen. It exists as a cheap way
// to check that a fixture decodes before spending a full compile on it,
// the same role generate/describe occupies relative to wit-bindgen-go's
// full generate pipeline.
package dump

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ts2wasm/ts2wasm-go/internal/treecodec"
)

// Command is the CLI command for dump.
var Command = &cli.Command{
	Name:  "dump",
	Usage: "decode a semantics-tree JSON document and report its shape",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "in",
			Aliases:  []string{"i"},
			Usage:    "input semantics-tree JSON file; defaults to stdin",
			OnlyOnce: true,
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
		return fmt.Errorf("dump: %w", err)
	}

	fmt.Printf("classes: %d\n", len(prog.Classes))
	fmt.Printf("interfaces: %d\n", len(prog.Interfaces))
	fmt.Printf("functions: %d\n", len(prog.Functions))
	fmt.Printf("globals: %d\n", len(prog.Globals))
	fmt.Printf("all functions (incl. methods/accessors/ctors): %d\n", len(prog.AllFunctions()))
	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dump: opening input: %w", err)
	}
	return f, nil
}
