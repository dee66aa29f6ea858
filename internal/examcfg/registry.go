// Package examcfg holds the exam-profile registry: the static subject
// tables an analysis runs against. Built-in profiles cover the common
// tiered exams; deployments add or override profiles by dropping YAML
// files into a config directory.
package examcfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/surajktr/scoresight/internal/sheet"
)

// ErrUnknownExam reports a lookup for an exam type the registry does not
// carry. Callers should reject the request before fetching or parsing
// any document.
var ErrUnknownExam = errors.New("examcfg: unknown exam type")

// Registry maps exam-type identifiers to subject tables. Safe for
// concurrent use after construction.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]sheet.ExamConfig
}

// NewRegistry returns a registry seeded with the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]sheet.ExamConfig)}
	for _, cfg := range builtins() {
		r.profiles[cfg.Type] = cfg
	}
	return r
}

// Get returns the profile for the given exam type, case-insensitively.
func (r *Registry) Get(examType string) (sheet.ExamConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.profiles[strings.ToLower(strings.TrimSpace(examType))]
	if !ok {
		return sheet.ExamConfig{}, fmt.Errorf("%w: %q", ErrUnknownExam, examType)
	}
	return cfg, nil
}

// List returns all registered profiles sorted by type.
func (r *Registry) List() []sheet.ExamConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]sheet.ExamConfig, 0, len(r.profiles))
	for _, cfg := range r.profiles {
		out = append(out, cfg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Register adds or replaces a profile after validating it.
func (r *Registry) Register(cfg sheet.ExamConfig) error {
	if err := validate(cfg); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[strings.ToLower(cfg.Type)] = cfg
	return nil
}

// LoadDir reads every .yaml/.yml file in dir and registers the profile it
// contains, overriding built-ins of the same type. A missing directory is
// not an error so the env var can point at an optional overlay location.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("examcfg: read config dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("examcfg: read %s: %w", path, err)
		}
		var cfg sheet.ExamConfig
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return fmt.Errorf("examcfg: parse %s: %w", path, err)
		}
		if err := r.Register(cfg); err != nil {
			return fmt.Errorf("examcfg: %s: %w", path, err)
		}
	}
	return nil
}

func validate(cfg sheet.ExamConfig) error {
	if strings.TrimSpace(cfg.Type) == "" {
		return errors.New("examcfg: profile missing type")
	}
	if len(cfg.Subjects) == 0 {
		return fmt.Errorf("examcfg: profile %q has no subjects", cfg.Type)
	}
	for _, s := range cfg.Subjects {
		if s.Name == "" || s.TotalQuestions <= 0 {
			return fmt.Errorf("examcfg: profile %q has invalid subject %+v", cfg.Type, s)
		}
	}
	return nil
}

func builtins() []sheet.ExamConfig {
	tier1Subject := func(name, part string) sheet.SubjectConfig {
		return sheet.SubjectConfig{
			Name:           name,
			Part:           part,
			TotalQuestions: 25,
			MaxMarks:       50,
			CorrectMarks:   2,
			NegativeMarks:  0.5,
		}
	}
	return []sheet.ExamConfig{
		{
			Type:     "cgl-tier1",
			Name:     "CGL Tier I",
			MaxMarks: 200,
			Subjects: []sheet.SubjectConfig{
				tier1Subject("General Intelligence and Reasoning", "A"),
				tier1Subject("General Awareness", "B"),
				tier1Subject("Quantitative Aptitude", "C"),
				tier1Subject("English Comprehension", "D"),
			},
		},
		{
			Type:     "cgl-tier2",
			Name:     "CGL Tier II Paper I",
			MaxMarks: 390,
			Subjects: []sheet.SubjectConfig{
				{Name: "Mathematical Abilities", Part: "A", TotalQuestions: 30, MaxMarks: 90, CorrectMarks: 3, NegativeMarks: 1},
				{Name: "Reasoning and General Intelligence", Part: "B", TotalQuestions: 30, MaxMarks: 90, CorrectMarks: 3, NegativeMarks: 1},
				{Name: "English Language and Comprehension", Part: "C", TotalQuestions: 45, MaxMarks: 135, CorrectMarks: 3, NegativeMarks: 1},
				{Name: "General Awareness", Part: "D", TotalQuestions: 25, MaxMarks: 75, CorrectMarks: 3, NegativeMarks: 1},
				{Name: "Computer Knowledge", Part: "E", TotalQuestions: 20, MaxMarks: 60, CorrectMarks: 3, NegativeMarks: 1, IsQualifying: true},
			},
		},
		{
			Type:     "chsl-tier1",
			Name:     "CHSL Tier I",
			MaxMarks: 200,
			Subjects: []sheet.SubjectConfig{
				tier1Subject("General Intelligence", "A"),
				tier1Subject("General Awareness", "B"),
				tier1Subject("Quantitative Aptitude", "C"),
				tier1Subject("English Language", "D"),
			},
		},
	}
}
