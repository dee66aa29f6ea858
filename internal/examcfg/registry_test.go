package examcfg

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/surajktr/scoresight/internal/sheet"
)

func TestGetBuiltins(t *testing.T) {
	r := NewRegistry()

	cfg, err := r.Get("cgl-tier1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Subjects) != 4 || cfg.MaxMarks != 200 {
		t.Fatalf("tier1 profile: %+v", cfg)
	}
	if cfg.TotalQuestions() != 100 {
		t.Fatalf("tier1 total questions = %d", cfg.TotalQuestions())
	}

	cfg, err = r.Get("  CGL-Tier2 ")
	if err != nil {
		t.Fatalf("lookup should be case-insensitive: %v", err)
	}
	last := cfg.Subjects[len(cfg.Subjects)-1]
	if !last.IsQualifying || last.Name != "Computer Knowledge" {
		t.Fatalf("tier2 qualifying section: %+v", last)
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := NewRegistry().Get("mts-tier9")
	if !errors.Is(err, ErrUnknownExam) {
		t.Fatalf("err = %v", err)
	}
}

func TestListSorted(t *testing.T) {
	list := NewRegistry().List()
	if len(list) < 3 {
		t.Fatalf("got %d profiles", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Type >= list[i].Type {
			t.Fatalf("profiles not sorted: %q before %q", list[i-1].Type, list[i].Type)
		}
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(sheet.ExamConfig{Type: "empty"}); err == nil {
		t.Fatal("expected validation error for profile without subjects")
	}
	bad := sheet.ExamConfig{
		Type:     "bad",
		Subjects: []sheet.SubjectConfig{{Name: "X", TotalQuestions: 0}},
	}
	if err := r.Register(bad); err == nil {
		t.Fatal("expected validation error for zero-question subject")
	}
}

func TestLoadDirOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	overlay := `type: cgl-tier1
name: Tier I (revised)
max_marks: 180
subjects:
  - name: Reasoning
    part: A
    total_questions: 30
    max_marks: 90
    correct_marks: 3
    negative_marks: 1
  - name: English
    part: B
    total_questions: 30
    max_marks: 90
    correct_marks: 3
    negative_marks: 1
`
	if err := os.WriteFile(filepath.Join(dir, "tier1.yaml"), []byte(overlay), 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	cfg, err := r.Get("cgl-tier1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Name != "Tier I (revised)" || len(cfg.Subjects) != 2 {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
}

func TestLoadDirMissingIsNoop(t *testing.T) {
	if err := NewRegistry().LoadDir("/nonexistent/exam-configs"); err != nil {
		t.Fatalf("missing dir must be tolerated: %v", err)
	}
}

func TestLoadDirRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("{not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := NewRegistry().LoadDir(dir); err == nil {
		t.Fatal("expected parse error")
	}
}
