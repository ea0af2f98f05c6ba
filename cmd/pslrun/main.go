package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/linqs/psl-runtime-go/bridge"
	"github.com/linqs/psl-runtime-go/configfile"
	"github.com/linqs/psl-runtime-go/engine"
	"github.com/linqs/psl-runtime-go/server"
	"github.com/linqs/psl-runtime-go/value"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr, func() *bridge.Bridge {
		return bridge.New()
	}))
}

func run(argv []string, stdout, stderr io.Writer, newBridge func() *bridge.Bridge) int {
	executable := argv[0]
	args := argv[1:]

	if hasHelpToken(args) {
		usage(stderr, executable)
		return 1
	}

	fs := flag.NewFlagSet(executable, flag.ContinueOnError)
	fs.SetOutput(stderr)
	serveAddr := fs.String("serve", "", "serve inference requests on this TCP address")
	interactive := fs.Bool("i", false, "interactive mode with TUI")
	verbose := fs.Bool("v", false, "verbose logging to stderr")
	if err := fs.Parse(args); err != nil {
		usage(stderr, executable)
		return 1
	}

	if *verbose {
		enableLogging(stderr)
	}

	if *serveAddr != "" {
		if err := serveMain(*serveAddr, newBridge()); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if *interactive {
		if err := runInteractive(newBridge(), fs.Arg(0)); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if fs.NArg() != 1 {
		usage(stderr, executable)
		return 1
	}

	if err := runJob(newBridge(), fs.Arg(0), stdout); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func usage(stderr io.Writer, executable string) {
	fmt.Fprintf(stderr, "USAGE: %s <config path>\n", executable)
	fmt.Fprintf(stderr, "       %s -i [config path]  (interactive mode)\n", executable)
	fmt.Fprintf(stderr, "       %s -serve <addr>     (serve requests over TCP)\n", executable)
}

// hasHelpToken reports whether any argument asks for help: the match is
// case-insensitive and dash-insensitive on "h" and "help".
func hasHelpToken(args []string) bool {
	for _, arg := range args {
		token := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(arg)), "-", "")
		if token == "h" || token == "help" {
			return true
		}
	}
	return false
}

// runJob loads one configuration file, runs it with the file's directory as
// the base path, and prints the result as indented JSON.
func runJob(b *bridge.Bridge, configPath string, stdout io.Writer) error {
	ctx := context.Background()
	defer b.Shutdown(ctx)

	config, err := configfile.Load(configPath)
	if err != nil {
		return err
	}

	result, err := b.Run(ctx, config, filepath.Dir(configPath))
	if err != nil {
		return err
	}

	text, err := value.MarshalIndent(result, "", "    ")
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, text)
	return nil
}

// serveMain blocks serving requests until the listener is closed by a
// close-server task or a signal kills the process.
func serveMain(addr string, b *bridge.Bridge) error {
	ctx := context.Background()
	defer b.Shutdown(ctx)

	srv, err := server.New(addr, b)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Serve()
}

func enableLogging(stderr io.Writer) {
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintf(stderr, "logging disabled: %v\n", err)
		return
	}

	bridge.SetLogger(logger.Named("bridge"))
	engine.SetLogger(logger.Named("engine"))
	server.SetLogger(logger.Named("server"))
}
