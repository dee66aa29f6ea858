// Package analysis wires document extraction and scoring into one
// immutable result value. The caller supplies raw HTML (one document for
// the answer-key family, one page per subject for the multi-page family),
// a base URL for asset resolution, and the exam's subject-configuration
// table; nothing is inferred from the document beyond its markup.
package analysis

import (
	"errors"
	"sort"

	"github.com/surajktr/scoresight/internal/scoring"
	"github.com/surajktr/scoresight/internal/sheet"
)

// ErrNoQuestions reports a document-level extraction failure: a full
// parse that yielded nothing must not be silently scored as 0/0.
var ErrNoQuestions = errors.New("analysis: could not parse any questions from document")

// Result is the single value handed to presentation and export
// collaborators. It is constructed once per invocation and never mutated;
// corrections produce a new value.
type Result struct {
	Format     sheet.Format             `json:"format"`
	Candidate  sheet.Candidate          `json:"candidate"`
	Exam       sheet.ExamConfig         `json:"exam"`
	Sections   []scoring.SectionResult  `json:"sections"`
	TotalScore float64                  `json:"total_score"`
	MaxScore   float64                  `json:"max_score"`
	Counts     scoring.Counts           `json:"counts"`
	Questions  []sheet.Question         `json:"questions"`
	Notes      []string                 `json:"notes,omitempty"`
}

// Analyze detects the format of the supplied pages and dispatches to the
// matching parser. The multi-page family expects pages in subject order,
// one per subject; the answer-key family expects a single page.
func Analyze(pages []string, baseDir string, cfg sheet.ExamConfig) (Result, error) {
	if len(pages) == 0 {
		return Result{}, ErrNoQuestions
	}
	format, err := sheet.DetectFormat(pages[0])
	if err != nil {
		return Result{}, err
	}
	switch format {
	case sheet.FormatAnswerKey:
		return AnalyzeAnswerKey(pages[0], baseDir, cfg)
	default:
		return AnalyzeMultiPage(pages, baseDir, cfg)
	}
}

// AnalyzeAnswerKey runs the single-page answer-key pipeline. Because this
// family resets its printed numbering per section, the subject
// reassignment pass always runs before scoring.
func AnalyzeAnswerKey(page, baseDir string, cfg sheet.ExamConfig) (Result, error) {
	tr := &sheet.Collector{}
	parsed := sheet.ParseAnswerKey(page, baseDir, cfg, tr)
	if len(parsed.Questions) == 0 {
		return Result{}, ErrNoQuestions
	}
	questions, sum := scoring.ReassignSubjects(parsed.Questions, cfg)
	return build(sheet.FormatAnswerKey, parsed.Candidate, cfg, questions, sum, tr.Notes), nil
}

// AnalyzeMultiPage parses one page per subject (in configuration order)
// and merges the per-subject question lists. Candidate metadata comes
// from the first page that yields any.
func AnalyzeMultiPage(pages []string, baseDir string, cfg sheet.ExamConfig) (Result, error) {
	tr := &sheet.Collector{}
	var questions []sheet.Question
	var cand sheet.Candidate

	offset := 0
	for i, page := range pages {
		if i >= len(cfg.Subjects) {
			tr.Notef("page %d has no configured subject; skipped", i+1)
			break
		}
		subj := cfg.Subjects[i]
		questions = append(questions, sheet.ParsePart(page, subj.Part, baseDir, subj, offset, tr)...)
		if cand == (sheet.Candidate{}) {
			cand = sheet.ExtractCandidateHTML(page)
		}
		offset += subj.TotalQuestions
	}
	if len(questions) == 0 {
		return Result{}, ErrNoQuestions
	}
	// Pages parse independently; ordering is only guaranteed once the
	// merged list is sorted.
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].Number < questions[j].Number })
	return build(sheet.FormatMultiPage, cand, cfg, questions, scoring.Score(questions, cfg), tr.Notes), nil
}

// Corrected returns a new Result with subjects re-derived from question
// order and all aggregates rebuilt. Applying it twice equals applying it
// once.
func (r Result) Corrected() Result {
	questions, sum := scoring.ReassignSubjects(r.Questions, r.Exam)
	return build(r.Format, r.Candidate, r.Exam, questions, sum, r.Notes)
}

func build(format sheet.Format, cand sheet.Candidate, cfg sheet.ExamConfig, questions []sheet.Question, sum scoring.Summary, notes []string) Result {
	return Result{
		Format:     format,
		Candidate:  cand,
		Exam:       cfg,
		Sections:   sum.Sections,
		TotalScore: sum.TotalScore,
		MaxScore:   sum.MaxScore,
		Counts:     sum.Counts,
		Questions:  questions,
		Notes:      notes,
	}
}
