// Command regexp-match tests a regular expression against a text and prints
// the result document, either in-process or by running regexp-oracle in a
// separate, time-boxed process. With --mcp it serves the same query as an MCP
// tool over stdin and stdout.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Veraticus/regexp-match/pkg/config"
	"github.com/Veraticus/regexp-match/pkg/oracle"
	"github.com/Veraticus/regexp-match/pkg/types"
)

type options struct {
	configPath string
	engine     string
	timeout    time.Duration
	pattern    string
	text       string
	input      string
	mcp        bool
	debug      bool
	help       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("regexp-match", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Path to config file")
	fs.StringVar(&opts.engine, "engine", "", "Path to the regexp-oracle binary (empty: evaluate in-process)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Per-query timeout for the engine process")
	fs.StringVarP(&opts.pattern, "pattern", "p", "", "Regular expression to test")
	fs.StringVarP(&opts.text, "text", "t", "", "Text to test the pattern against")
	fs.StringVarP(&opts.input, "input", "i", "", "Read a {\"pattern\",\"text\"} JSON document from a file (- for stdin)")
	fs.BoolVar(&opts.mcp, "mcp", false, "Serve the regexp-match tool over MCP on stdin/stdout")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	fs.BoolVarP(&opts.help, "help", "h", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if opts.help {
		printUsage(stdout, fs)
		return exitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", fs.Args())
		return exitUsage
	}

	haveQuery := fs.Changed("pattern") || fs.Changed("text")
	switch {
	case opts.mcp && (haveQuery || opts.input != ""):
		fmt.Fprintf(stderr, "Error: --mcp reads queries from stdin and takes no query flags\n")
		return exitUsage
	case !opts.mcp && haveQuery == (opts.input != ""):
		fmt.Fprintf(stderr, "Error: use either --pattern/--text or --input\n")
		return exitUsage
	}

	// Load configuration
	if opts.configPath != "" {
		if err := os.Setenv("REGEXP_MATCH_CONFIG", opts.configPath); err != nil {
			fmt.Fprintf(stderr, "Error setting config path: %v\n", err)
			return exitUsage
		}
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return exitUsage
	}

	// Override config with command line flags
	if fs.Changed("engine") {
		cfg.EnginePath = opts.engine
	}
	if fs.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if opts.debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	logger := newLogger(stderr, cfg.Debug)

	deps, err := NewDependencies(cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating dependencies: %v\n", err)
		return exitUsage
	}
	defer deps.Close()

	if opts.mcp {
		if err := serveMCP(ctx, NewApplication(deps), logger, stdin, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	var result types.Result
	code := exitOK
	if haveQuery {
		req := types.Request{
			Pattern: types.UntrustedPattern(opts.pattern),
			Text:    types.UntrustedText(opts.text),
		}
		result, code = NewApplication(deps).Query(ctx, req)
	} else {
		result, code = queryDocument(ctx, deps, opts.input, stdin)
	}

	data, err := oracle.EncodeResult(result)
	if err != nil {
		fmt.Fprintf(stderr, "Error encoding result: %v\n", err)
		return exitFailure
	}
	if _, err := fmt.Fprintf(stdout, "%s\n", data); err != nil {
		return exitFailure
	}
	return code
}

// queryDocument reads and decodes a request document the same way the oracle
// does, so a malformed document is reported as a result rather than a usage error.
func queryDocument(ctx context.Context, deps *Dependencies, path string, stdin io.Reader) (types.Result, int) {
	data, err := readDocument(path, stdin, deps.Config.MaxInputBytes)
	if err != nil {
		deps.Logger.Error("failed to read request document", zap.String("path", path), zap.Error(err))
		return types.Failed(err.Error()), exitFailure
	}

	req, err := oracle.Decode(data)
	if err != nil {
		return types.Failed(err.Error()), exitOK
	}
	return NewApplication(deps).Query(ctx, req)
}

// readDocument reads at most limit bytes from path ("-" is stdin). Unlike the
// oracle, the host refuses oversized documents instead of truncating them.
func readDocument(path string, stdin io.Reader, limit int) ([]byte, error) {
	r := stdin
	if path != "-" {
		// #nosec G304 - The document path is supplied by the local user
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open request document: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request document: %w", err)
	}
	if len(data) > limit {
		return nil, fmt.Errorf("request document exceeds %d bytes", limit)
	}
	return data, nil
}

// newLogger builds the stderr logger: colored console output on a terminal,
// JSON lines otherwise.
func newLogger(w io.Writer, debug bool) *zap.Logger {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if f, ok := w.(*os.File); ok && isatty(f.Fd()) {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core).Named("regexp-match")
}

func printUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "regexp-match - test a regular expression against a text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: regexp-match [OPTIONS] --pattern PATTERN --text TEXT")
	fmt.Fprintln(w, "       regexp-match [OPTIONS] --input FILE")
	fmt.Fprintln(w, "       regexp-match [OPTIONS] --mcp")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment Variables:")
	fmt.Fprintln(w, "  REGEXP_MATCH_CONFIG            Path to config file")
	fmt.Fprintln(w, "  REGEXP_MATCH_ENGINE            Path to the regexp-oracle binary")
	fmt.Fprintln(w, "  REGEXP_MATCH_TIMEOUT           Per-query timeout (default: 100ms)")
	fmt.Fprintln(w, "  REGEXP_MATCH_MAX_OUTPUT        Cap on captured engine output in bytes (default: 65536)")
	fmt.Fprintln(w, "  REGEXP_MATCH_MEMORY_LIMIT_MB   Address space limit for the engine (default: none)")
	fmt.Fprintln(w, "  REGEXP_MATCH_DEBUG             Enable debug logging (true/false)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration file: ~/.config/regexp-match/config.yaml")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit status: 0 when a result was printed (including pattern and input")
	fmt.Fprintln(w, "errors), 1 when the engine failed, 2 on usage or configuration errors.")
}
