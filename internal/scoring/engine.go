// Package scoring aggregates extracted question outcomes into section and
// total figures. It never fails: degenerate input yields zero scores, not
// errors.
package scoring

import (
	"sort"
	"strings"

	"github.com/surajktr/scoresight/internal/sheet"
)

// SectionResult is the aggregate for one subject.
type SectionResult struct {
	Subject       string  `json:"subject"`
	Part          string  `json:"part"`
	Correct       int     `json:"correct"`
	Wrong         int     `json:"wrong"`
	Unattempted   int     `json:"unattempted"`
	Bonus         int     `json:"bonus"`
	Score         float64 `json:"score"`
	MaxMarks      float64 `json:"max_marks"`
	CorrectMarks  float64 `json:"correct_marks"`
	NegativeMarks float64 `json:"negative_marks"`
	IsQualifying  bool    `json:"qualifying"`
}

// Counts are the document-wide status tallies. Qualifying sections are
// included here even though their score is excluded from the total.
type Counts struct {
	Correct     int `json:"correct"`
	Wrong       int `json:"wrong"`
	Unattempted int `json:"unattempted"`
	Bonus       int `json:"bonus"`
}

// Summary is the scored view over one question list.
type Summary struct {
	Sections []SectionResult `json:"sections"`
	// TotalScore sums the non-qualifying section scores only. Qualifying
	// sections are computed and reported but excluded from this figure,
	// while their questions still contribute to Counts.
	TotalScore float64 `json:"total_score"`
	// MaxScore comes from the exam configuration, which is authoritative
	// even when the per-section figures would disagree.
	MaxScore float64 `json:"max_score"`
	Counts   Counts  `json:"counts"`
}

// Score aggregates questions per subject in configuration order. A
// question joins a section when its subject name matches, or failing
// that, its part letter; either key may be the only reliable join
// depending on which parser produced the list.
func Score(questions []sheet.Question, cfg sheet.ExamConfig) Summary {
	sum := Summary{MaxScore: cfg.MaxMarks}
	for _, subj := range cfg.Subjects {
		sec := SectionResult{
			Subject:       subj.Name,
			Part:          subj.Part,
			MaxMarks:      subj.MaxMarks,
			CorrectMarks:  subj.CorrectMarks,
			NegativeMarks: subj.NegativeMarks,
			IsQualifying:  subj.IsQualifying,
		}
		for _, q := range questions {
			if !belongs(q, subj) {
				continue
			}
			switch q.Status {
			case sheet.StatusCorrect:
				sec.Correct++
			case sheet.StatusWrong:
				sec.Wrong++
			case sheet.StatusBonus:
				sec.Bonus++
			default:
				sec.Unattempted++
			}
			// Per-question marks already carry bonus credit; summing them
			// directly is the one place score is computed, so bonus can
			// never be counted twice.
			sec.Score += q.MarksAwarded
		}
		sum.Counts.Correct += sec.Correct
		sum.Counts.Wrong += sec.Wrong
		sum.Counts.Unattempted += sec.Unattempted
		sum.Counts.Bonus += sec.Bonus
		if !sec.IsQualifying {
			sum.TotalScore += sec.Score
		}
		sum.Sections = append(sum.Sections, sec)
	}
	return sum
}

func belongs(q sheet.Question, subj sheet.SubjectConfig) bool {
	if q.Subject != "" && strings.EqualFold(q.Subject, subj.Name) {
		return true
	}
	return q.Subject == "" && q.Part != "" && strings.EqualFold(q.Part, subj.Part)
}

// ReassignSubjects re-derives every question's subject and part purely
// from order of appearance against the configuration's cumulative
// question ranges, then recomputes marks and aggregates from scratch.
// It exists for the document family whose per-section numbering resets,
// which defeats label-based inference. Pure and idempotent: the input
// slice is not mutated and a second application is a no-op.
func ReassignSubjects(questions []sheet.Question, cfg sheet.ExamConfig) ([]sheet.Question, Summary) {
	out := make([]sheet.Question, len(questions))
	copy(out, questions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	for i := range out {
		subj := subjectForPosition(cfg, i)
		out[i].Subject = subj.Name
		out[i].Part = subj.Part
		out[i].MarksAwarded = sheet.MarksFor(out[i].Status, subj)
	}
	return out, Score(out, cfg)
}

// subjectForPosition maps a zero-based sequence position onto the subject
// owning that cumulative range. Positions past the configured total fall
// into the last subject.
func subjectForPosition(cfg sheet.ExamConfig, pos int) sheet.SubjectConfig {
	if len(cfg.Subjects) == 0 {
		return sheet.SubjectConfig{}
	}
	cum := 0
	for _, s := range cfg.Subjects {
		cum += s.TotalQuestions
		if pos < cum {
			return s
		}
	}
	return cfg.Subjects[len(cfg.Subjects)-1]
}
