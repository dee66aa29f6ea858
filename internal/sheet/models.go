// Package sheet extracts questions, options and candidate metadata from
// exam-provider response-sheet HTML. Two incompatible markup families are
// supported: a multi-page family where each subject lives on its own page,
// and a consolidated single-page answer-key family.
package sheet

// Status classifies one question's outcome for the candidate.
type Status string

const (
	StatusCorrect     Status = "correct"
	StatusWrong       Status = "wrong"
	StatusUnattempted Status = "unattempted"
	// StatusBonus marks a question the exam authority voided: no option is
	// flagged correct and every candidate receives full credit.
	StatusBonus Status = "bonus"
)

// SubjectConfig describes one exam section. It is static lookup data
// supplied by the caller, never inferred from the document. Ordering of
// the configs defines section sequence; cumulative question counts map
// sequential question ranges onto subjects when labels are absent.
type SubjectConfig struct {
	Name           string  `json:"name" yaml:"name"`
	Part           string  `json:"part" yaml:"part"`
	TotalQuestions int     `json:"total_questions" yaml:"total_questions"`
	MaxMarks       float64 `json:"max_marks" yaml:"max_marks"`
	CorrectMarks   float64 `json:"correct_marks" yaml:"correct_marks"`
	NegativeMarks  float64 `json:"negative_marks" yaml:"negative_marks"` // positive magnitude
	IsQualifying   bool    `json:"qualifying" yaml:"qualifying"`
}

// ExamConfig is the ordered subject table for one exam profile.
type ExamConfig struct {
	Type     string          `json:"type" yaml:"type"`
	Name     string          `json:"name" yaml:"name"`
	MaxMarks float64         `json:"max_marks" yaml:"max_marks"`
	Subjects []SubjectConfig `json:"subjects" yaml:"subjects"`
}

// TotalQuestions sums the per-subject question counts.
func (c ExamConfig) TotalQuestions() int {
	n := 0
	for _, s := range c.Subjects {
		n += s.TotalQuestions
	}
	return n
}

// Option is one answer choice. A question always carries exactly four of
// these in the public record; structurally missing options are padded with
// empty placeholders.
type Option struct {
	ID              string `json:"id"` // single letter A-D
	ImageURL        string `json:"image_url,omitempty"`
	ImageURLHindi   string `json:"image_url_hindi,omitempty"`
	ImageURLEnglish string `json:"image_url_english,omitempty"`
	Text            string `json:"text,omitempty"`
	IsSelected      bool   `json:"is_selected"`
	IsCorrect       bool   `json:"is_correct"`
}

// Question is one extracted, already-classified question. Number is
// 1-based and globally sequential across the whole document.
// MarksAwarded is fully determined by Status and the owning subject's
// marks parameters; it is never set independently.
type Question struct {
	Number          int      `json:"question_number"`
	Part            string   `json:"part"`
	Subject         string   `json:"subject"`
	ImageURL        string   `json:"image_url,omitempty"`
	ImageURLHindi   string   `json:"image_url_hindi,omitempty"`
	ImageURLEnglish string   `json:"image_url_english,omitempty"`
	Text            string   `json:"text,omitempty"`
	Options         []Option `json:"options"` // always length 4
	Status          Status   `json:"status"`
	MarksAwarded    float64  `json:"marks_awarded"`
	IsBonus         bool     `json:"is_bonus"`
}

// Candidate holds identity and session metadata located heuristically in
// the document. Unresolved fields stay empty, never nil or an error.
type Candidate struct {
	RollNumber string `json:"roll_number"`
	Name       string `json:"name"`
	Venue      string `json:"venue,omitempty"`
	ExamDate   string `json:"exam_date,omitempty"`
	ExamTime   string `json:"exam_time,omitempty"`
	Subject    string `json:"subject,omitempty"`
}

const optionCount = 4

var optionLetters = [optionCount]string{"A", "B", "C", "D"}

// padOptions extends opts with empty placeholders until exactly four
// options are present.
func padOptions(opts []Option) []Option {
	for len(opts) < optionCount {
		opts = append(opts, Option{ID: optionLetters[len(opts)]})
	}
	return opts[:optionCount]
}

// classify derives status, marks and the bonus flag from option state.
// A question with no correct option is bonus regardless of selection.
func classify(opts []Option, subj SubjectConfig) (Status, float64, bool) {
	anyCorrect := false
	var selected *Option
	for i := range opts {
		if opts[i].IsCorrect {
			anyCorrect = true
		}
		if opts[i].IsSelected && selected == nil {
			selected = &opts[i]
		}
	}
	var st Status
	switch {
	case !anyCorrect:
		st = StatusBonus
	case selected == nil:
		st = StatusUnattempted
	case selected.IsCorrect:
		st = StatusCorrect
	default:
		st = StatusWrong
	}
	return st, MarksFor(st, subj), st == StatusBonus
}

// MarksFor is the single source of per-question marks: correct and bonus
// award the subject's positive credit, wrong deducts the negative
// magnitude, unattempted awards nothing.
func MarksFor(st Status, subj SubjectConfig) float64 {
	switch st {
	case StatusCorrect, StatusBonus:
		return subj.CorrectMarks
	case StatusWrong:
		return -subj.NegativeMarks
	default:
		return 0
	}
}
