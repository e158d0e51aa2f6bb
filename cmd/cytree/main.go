package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"cytree/writer-go/pkg/ast"
	"cytree/writer-go/pkg/codewriter"
	"cytree/writer-go/pkg/driver"
	"cytree/writer-go/pkg/fixtures"
	"cytree/writer-go/pkg/parser"
)

const cliToolVersion = "cytree 0.1.0-dev"

const manifestName = "cytree.yml"

var errManifestNotFound = errors.New(manifestName + " not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	return runWith(args, os.Stdout, os.Stderr)
}

func runWith(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stdout)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "dump":
		return runDump(args[1:], stdout, stderr)
	case "decl":
		return runDecl(args[1:], stdout, stderr)
	case "reparse":
		return runReparse(args[1:], stdout, stderr)
	case "run":
		return runJobs(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  cytree dump [-indent s] [-json] <tree.json|tree.yml>")
	fmt.Fprintln(w, "  cytree decl [-indent s] [-base] <tree.json|tree.yml>")
	fmt.Fprintln(w, "  cytree reparse [-check] <source.py>")
	fmt.Fprintln(w, "  cytree run [-manifest path] [-update] [-v] [job ...]")
	fmt.Fprintln(w, "  cytree version")
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func runDump(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("dump", stderr)
	indent := fs.String("indent", codewriter.DefaultIndent, "indentation unit")
	asJSON := fs.Bool("json", false, "re-encode the tree as JSON instead of writing source")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	tree, err := fixtures.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if *asJSON {
		data, err := fixtures.EncodeJSON(tree)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "%s\n", data)
		return 0
	}
	return writeTree(codewriter.NewCodeWriter(codewriter.Options{Indent: *indent}), tree, stdout, stderr)
}

func runDecl(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("decl", stderr)
	indent := fs.String("indent", codewriter.DefaultIndent, "indentation unit")
	base := fs.Bool("base", false, "use the base declaration writer instead of the pxd writer")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	tree, err := fixtures.Load(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	opts := codewriter.Options{Indent: *indent}
	w := codewriter.NewPxdWriter(opts)
	if *base {
		w = codewriter.NewDeclarationWriter(opts)
	}
	return writeTree(w, tree, stdout, stderr)
}

func writeTree(w *codewriter.Writer, tree ast.Node, stdout, stderr io.Writer) int {
	res, err := w.Write(tree)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	for _, line := range res.Lines {
		fmt.Fprintln(stdout, line)
	}
	return 0
}

func runReparse(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("reparse", stderr)
	check := fs.Bool("check", false, "fail unless writing the re-parsed output is stable")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	source, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	mp, err := parser.NewModuleParser()
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	defer mp.Close()

	mod, err := mp.ParseModule(source)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", fs.Arg(0), err)
		return 1
	}
	lines, err := codewriter.WriteCode(mod)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	written := strings.Join(lines, "\n") + "\n"
	if *check {
		again, err := mp.ParseModule([]byte(written))
		if err != nil {
			fmt.Fprintf(stderr, "re-parse of written output: %v\n", err)
			return 1
		}
		second, err := codewriter.WriteCode(again)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
		if rewritten := strings.Join(second, "\n") + "\n"; rewritten != written {
			fmt.Fprint(stderr, driver.Diff(written, rewritten))
			return 1
		}
	}
	fmt.Fprint(stdout, written)
	return 0
}

func runJobs(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("run", stderr)
	manifestPath := fs.String("manifest", "", "path to "+manifestName+" (default: search upwards from the working directory)")
	update := fs.Bool("update", false, "rewrite expect files with the current output")
	verbose := fs.Bool("v", false, "log job progress")
	if err := fs.Parse(args); err != nil {
		fs.Usage()
		return 2
	}

	path := *manifestPath
	if path == "" {
		found, err := findManifest(".")
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return 1
		}
		path = found
	}
	manifest, err := driver.LoadManifest(path)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
		return 1
	}

	opts := driver.RunnerOptions{Update: *update, Only: fs.Args()}
	if cacheDir, err := driver.DefaultCacheDir(); err == nil {
		opts.Fetcher = driver.NewGitFetcher(cacheDir)
	} else {
		fmt.Fprintf(stderr, "warning: %v; git sources unavailable\n", err)
	}
	if *verbose {
		opts.Logger = log.New(stderr, "cytree: ", 0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report, err := driver.NewRunner(manifest, opts).Run(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	for _, res := range report.Results {
		if res.Passed() {
			continue
		}
		fmt.Fprintf(stdout, "FAIL %s: %v\n", res.Name, res.Err)
		if res.Diff != "" {
			fmt.Fprint(stdout, res.Diff)
		}
	}
	fmt.Fprintf(stdout, "%d jobs, %d failed\n", len(report.Results), report.Failed())
	if report.Failed() > 0 {
		return 1
	}
	return 0
}

// findManifest walks from start towards the filesystem root looking for
// cytree.yml.
func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, manifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", manifestName, origin, errManifestNotFound)
		}
		dir = parent
	}
}
