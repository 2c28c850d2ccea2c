// Command ts2wasm drives the codegen pipeline end to end: "generate"
// decodes a semantics tree and lowers it to a WebAssembly GC module,
// "dump" decodes a semantics tree and reports its declaration counts
// without compiling it. Grounded
// on cmd/wit-bindgen-go/main.go's subcommand-registration shape.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v3"

	"github.com/ts2wasm/ts2wasm-go/cmd/ts2wasm/cmd/dump"
	"github.com/ts2wasm/ts2wasm-go/cmd/ts2wasm/cmd/generate"
)

var (
	version  = ""
	revision = ""
)

func init() {
	build, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = build.Main.Version
	for _, s := range build.Settings {
		if s.Key == "vcs.revision" {
			revision = s.Value
		}
	}
	if version == "" {
		version = revision
	}
	if version == "" {
		version = "(none)"
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "ts2wasm",
		Usage: "lower a typed-scripting-language semantics tree to WebAssembly GC",
		Commands: []*cli.Command{
			generate.Command,
			dump.Command,
		},
		Version: version,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
