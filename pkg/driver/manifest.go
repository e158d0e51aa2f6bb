package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Manifest represents the parsed contents of cytree.yml.
type Manifest struct {
	Path     string
	Dir      string
	Name     string
	Indent   string
	Sources  map[string]*SourceSpec
	Jobs     map[string]*JobSpec
	JobOrder []string

	jobEntries []*JobSpec
}

// JobMode selects the writer a job runs.
type JobMode string

const (
	JobModeCode         JobMode = "code"
	JobModeDeclarations JobMode = "declarations"
	JobModeBase         JobMode = "base"
)

// JobSpec describes one serialization job: a fixture tree, the writer to run
// over it and the golden file its output is compared with.
type JobSpec struct {
	Name    string  `yaml:"-"`
	Source  string  `yaml:"source"`
	Input   string  `yaml:"input"`
	Expect  string  `yaml:"expect"`
	Mode    JobMode `yaml:"mode"`
	Indent  string  `yaml:"indent"`
	Reparse bool    `yaml:"reparse"`
}

// SourceSpec locates a fixture corpus: a local directory or a pinned git
// checkout.
type SourceSpec struct {
	Path   string
	Git    string
	Rev    string
	Tag    string
	Branch string
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses cytree.yml from disk, returning a validated manifest
// whose jobs already carry the defaults block.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()
	return decodeManifest(file, absPath)
}

func decodeManifest(r io.Reader, absPath string) (*Manifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest, err := raw.toManifest(absPath)
	if err != nil {
		return nil, err
	}
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if strings.ContainsAny(m.Indent, "\r\n") {
		errs.Issues = append(errs.Issues, "indent must not contain line breaks")
	}

	for name, src := range m.Sources {
		for _, issue := range src.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("sources.%s: %s", name, issue))
		}
	}

	if len(m.jobEntries) == 0 {
		errs.Issues = append(errs.Issues, "at least one job must be defined")
	}
	seen := make(map[string]struct{}, len(m.jobEntries))
	for _, job := range m.jobEntries {
		if _, dup := seen[job.Name]; dup {
			errs.Issues = append(errs.Issues, fmt.Sprintf("job %q defined more than once", job.Name))
			continue
		}
		seen[job.Name] = struct{}{}
		for _, issue := range job.validate(m.Sources) {
			errs.Issues = append(errs.Issues, fmt.Sprintf("jobs.%s: %s", job.Name, issue))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (j *JobSpec) validate(sources map[string]*SourceSpec) []string {
	var errs []string
	if j.Input == "" {
		errs = append(errs, "input must be provided")
	}
	if !j.Mode.IsValid() {
		errs = append(errs, fmt.Sprintf("unsupported mode %q", j.Mode))
	}
	if j.Reparse && j.Mode != JobModeCode {
		errs = append(errs, "reparse requires code mode")
	}
	if j.Source != "" {
		if _, ok := sources[j.Source]; !ok {
			errs = append(errs, fmt.Sprintf("unknown source %q", j.Source))
		}
	}
	if strings.ContainsAny(j.Indent, "\r\n") {
		errs = append(errs, "indent must not contain line breaks")
	}
	return errs
}

func (s *SourceSpec) validate() []string {
	var errs []string
	if s.Path != "" && s.Git != "" {
		errs = append(errs, "path sources cannot also specify git")
	}
	if s.Path == "" && s.Git == "" {
		errs = append(errs, "must specify path or git")
	}
	pins := 0
	for _, pin := range []string{s.Rev, s.Tag, s.Branch} {
		if pin != "" {
			pins++
		}
	}
	if s.Git != "" && pins != 1 {
		errs = append(errs, "git sources require exactly one of rev, tag, or branch")
	}
	if s.Git == "" && pins > 0 {
		errs = append(errs, "rev, tag and branch apply only to git sources")
	}
	return errs
}

// IsValid reports whether the job mode is recognised.
func (m JobMode) IsValid() bool {
	switch m {
	case JobModeCode, JobModeDeclarations, JobModeBase:
		return true
	default:
		return false
	}
}

// FindJob looks up a job by name.
func (m *Manifest) FindJob(name string) (*JobSpec, bool) {
	if m == nil {
		return nil, false
	}
	job, ok := m.Jobs[strings.TrimSpace(name)]
	return job, ok && job != nil
}

// Resolve interprets a manifest-relative path.
func (m *Manifest) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.Dir, path)
}

type manifestFile struct {
	Name     string    `yaml:"name"`
	Indent   string    `yaml:"indent"`
	Defaults JobSpec   `yaml:"defaults"`
	Sources  sourceMap `yaml:"sources"`
	Jobs     jobMap    `yaml:"jobs"`
}

type jobMap struct {
	items []*JobSpec
}

func (jm *jobMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		jm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: jobs must be a mapping")
	}
	items := make([]*JobSpec, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: jobs must not use empty keys")
		}
		job := new(JobSpec)
		if err := value.Content[i+1].Decode(job); err != nil {
			return fmt.Errorf("manifest: job %q: %w", key, err)
		}
		job.Name = key
		items = append(items, job)
	}
	jm.items = items
	return nil
}

type sourceMap map[string]*SourceSpec

func (sm *sourceMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 || (value.Kind == yaml.ScalarNode && value.Tag == "!!null") {
		*sm = make(sourceMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: sources must be a mapping")
	}
	result := make(sourceMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: source names must be non-empty")
		}
		var src SourceSpec
		if err := src.unmarshalYAML(value.Content[i+1]); err != nil {
			return fmt.Errorf("manifest: source %q: %w", key, err)
		}
		result[key] = &src
	}
	*sm = result
	return nil
}

// unmarshalYAML accepts either a bare directory path or a mapping.
func (s *SourceSpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" {
			*s = SourceSpec{}
			return nil
		}
		*s = SourceSpec{Path: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		var raw struct {
			Path   string `yaml:"path"`
			Git    string `yaml:"git"`
			Rev    string `yaml:"rev"`
			Tag    string `yaml:"tag"`
			Branch string `yaml:"branch"`
		}
		if err := value.Decode(&raw); err != nil {
			return err
		}
		*s = SourceSpec{
			Path:   strings.TrimSpace(raw.Path),
			Git:    strings.TrimSpace(raw.Git),
			Rev:    strings.TrimSpace(raw.Rev),
			Tag:    strings.TrimSpace(raw.Tag),
			Branch: strings.TrimSpace(raw.Branch),
		}
		return nil
	case yaml.AliasNode:
		return s.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping but found %s", value.ShortTag())
	}
}

func (mf manifestFile) toManifest(path string) (*Manifest, error) {
	result := &Manifest{
		Path:       path,
		Dir:        filepath.Dir(path),
		Name:       strings.TrimSpace(mf.Name),
		Indent:     mf.Indent,
		Sources:    map[string]*SourceSpec(mf.Sources),
		Jobs:       make(map[string]*JobSpec, len(mf.Jobs.items)),
		JobOrder:   make([]string, 0, len(mf.Jobs.items)),
		jobEntries: make([]*JobSpec, 0, len(mf.Jobs.items)),
	}
	if result.Sources == nil {
		result.Sources = map[string]*SourceSpec{}
	}

	defaults := mf.Defaults
	if defaults.Mode == "" {
		defaults.Mode = JobModeCode
	}
	if defaults.Indent == "" {
		defaults.Indent = result.Indent
	}
	for _, item := range mf.Jobs.items {
		job := *item
		job.Source = strings.TrimSpace(job.Source)
		job.Input = strings.TrimSpace(job.Input)
		job.Expect = strings.TrimSpace(job.Expect)
		job.Mode = JobMode(strings.TrimSpace(string(job.Mode)))
		if err := mergo.Merge(&job, defaults); err != nil {
			return nil, fmt.Errorf("manifest: job %q: apply defaults: %w", job.Name, err)
		}
		if _, exists := result.Jobs[job.Name]; !exists {
			result.Jobs[job.Name] = &job
			result.JobOrder = append(result.JobOrder, job.Name)
		}
		result.jobEntries = append(result.jobEntries, &job)
	}
	return result, nil
}
