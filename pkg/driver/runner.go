package driver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"cytree/writer-go/pkg/ast"
	"cytree/writer-go/pkg/codewriter"
	"cytree/writer-go/pkg/fixtures"
	"cytree/writer-go/pkg/parser"
)

// ErrGoldenMismatch marks a job whose output differs from its expect file.
var ErrGoldenMismatch = errors.New("driver: output differs from golden file")

// RunnerOptions configure a Runner. A nil Fetcher rejects git sources; a nil
// Logger discards progress.
type RunnerOptions struct {
	Fetcher Fetcher
	Logger  *log.Logger
	// Update rewrites expect files instead of comparing against them.
	Update bool
	// Only restricts the run to the named jobs.
	Only []string
}

// Runner executes the jobs of a manifest in order.
type Runner struct {
	manifest *Manifest
	opts     RunnerOptions
	roots    map[string]string
	parser   *parser.ModuleParser
}

// JobResult records the outcome of one job.
type JobResult struct {
	Name  string
	Lines []string
	Diff  string
	Err   error
}

func (r JobResult) Passed() bool { return r.Err == nil }

// Report collects job results in manifest order.
type Report struct {
	Results []JobResult
}

// Failed counts jobs that did not pass.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

func NewRunner(manifest *Manifest, opts RunnerOptions) *Runner {
	return &Runner{manifest: manifest, opts: opts, roots: make(map[string]string)}
}

// Run executes every selected job. Job failures are recorded in the report;
// the returned error is reserved for cancellation and setup failures.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	jobs, err := r.selectJobs()
	if err != nil {
		return nil, err
	}
	defer func() {
		if r.parser != nil {
			r.parser.Close()
			r.parser = nil
		}
	}()

	report := &Report{Results: make([]JobResult, 0, len(jobs))}
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := r.runJob(ctx, job)
		if res.Err != nil {
			r.logf("FAIL %s: %v", job.Name, res.Err)
		} else {
			r.logf("ok   %s (%d lines)", job.Name, len(res.Lines))
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}

func (r *Runner) selectJobs() ([]*JobSpec, error) {
	if len(r.opts.Only) == 0 {
		jobs := make([]*JobSpec, 0, len(r.manifest.JobOrder))
		for _, name := range r.manifest.JobOrder {
			jobs = append(jobs, r.manifest.Jobs[name])
		}
		return jobs, nil
	}
	jobs := make([]*JobSpec, 0, len(r.opts.Only))
	for _, name := range r.opts.Only {
		job, ok := r.manifest.FindJob(name)
		if !ok {
			return nil, fmt.Errorf("driver: unknown job %q", name)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (r *Runner) runJob(ctx context.Context, job *JobSpec) JobResult {
	res := JobResult{Name: job.Name}
	root, err := r.sourceRoot(ctx, job.Source)
	if err != nil {
		res.Err = err
		return res
	}
	tree, err := fixtures.Load(resolveIn(root, job.Input))
	if err != nil {
		res.Err = err
		return res
	}
	lines, err := writeJob(job, tree)
	if err != nil {
		res.Err = fmt.Errorf("write %s: %w", job.Input, err)
		return res
	}
	res.Lines = lines

	if job.Reparse {
		if err := r.checkRoundTrip(job, lines); err != nil {
			res.Err = err
			return res
		}
	}
	if job.Expect == "" {
		return res
	}

	expectPath := resolveIn(root, job.Expect)
	actual := joinLines(lines)
	if r.opts.Update {
		if err := os.MkdirAll(filepath.Dir(expectPath), 0o755); err != nil {
			res.Err = err
			return res
		}
		if err := os.WriteFile(expectPath, []byte(actual), 0o644); err != nil {
			res.Err = fmt.Errorf("update %s: %w", expectPath, err)
		}
		return res
	}
	expected, err := os.ReadFile(expectPath)
	if err != nil {
		res.Err = fmt.Errorf("read golden: %w", err)
		return res
	}
	if string(expected) != actual {
		res.Diff = Diff(string(expected), actual)
		res.Err = fmt.Errorf("%w: %s", ErrGoldenMismatch, expectPath)
	}
	return res
}

func writeJob(job *JobSpec, tree ast.Node) ([]string, error) {
	opts := codewriter.Options{Indent: job.Indent}
	var w *codewriter.Writer
	switch job.Mode {
	case JobModeCode:
		w = codewriter.NewCodeWriter(opts)
	case JobModeDeclarations:
		w = codewriter.NewPxdWriter(opts)
	case JobModeBase:
		w = codewriter.NewDeclarationWriter(opts)
	default:
		return nil, fmt.Errorf("unsupported mode %q", job.Mode)
	}
	out, err := w.Write(tree)
	if err != nil {
		return nil, err
	}
	return out.Lines, nil
}

// checkRoundTrip re-parses the written lines and requires that writing the
// re-parsed tree reproduces them.
func (r *Runner) checkRoundTrip(job *JobSpec, lines []string) error {
	if r.parser == nil {
		p, err := parser.NewModuleParser()
		if err != nil {
			return err
		}
		r.parser = p
	}
	mod, err := r.parser.ParseModule([]byte(joinLines(lines)))
	if err != nil {
		return fmt.Errorf("reparse: %w", err)
	}
	again, err := codewriter.NewCodeWriter(codewriter.Options{Indent: job.Indent}).Write(mod)
	if err != nil {
		return fmt.Errorf("reparse: write: %w", err)
	}
	if first, second := joinLines(lines), joinLines(again.Lines); first != second {
		return fmt.Errorf("reparse: output not stable\n%s", Diff(first, second))
	}
	return nil
}

func (r *Runner) sourceRoot(ctx context.Context, name string) (string, error) {
	if name == "" {
		return r.manifest.Dir, nil
	}
	if root, ok := r.roots[name]; ok {
		return root, nil
	}
	src := r.manifest.Sources[name]
	if src == nil {
		return "", fmt.Errorf("unknown source %q", name)
	}
	var root string
	if src.Path != "" {
		root = r.manifest.Resolve(src.Path)
	} else {
		if r.opts.Fetcher == nil {
			return "", fmt.Errorf("source %q: no fetcher configured for git sources", name)
		}
		var err error
		if root, err = r.opts.Fetcher.Fetch(ctx, name, src); err != nil {
			return "", err
		}
		r.logf("fetched %s into %s", name, root)
	}
	r.roots[name] = root
	return root, nil
}

func (r *Runner) logf(format string, args ...any) {
	if r.opts.Logger != nil {
		r.opts.Logger.Printf(format, args...)
	}
}

func resolveIn(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Diff renders a line-level diff of expected against actual. Removed lines
// are prefixed with "-", added lines with "+", and common lines with a space.
func Diff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String()
}
