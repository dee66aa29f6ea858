package sheet

import (
	"errors"
	"strings"
)

// Format names one supported markup family.
type Format string

const (
	// FormatMultiPage is the family where each subject's questions are
	// rendered on a separate page and every question is a self-contained
	// table carrying a "Q.No:" marker.
	FormatMultiPage Format = "multipage"
	// FormatAnswerKey is the consolidated single-page family
	// ("AssessmentQPHTMLMode1") demarcated by question-pnl panels and
	// rightAns/wrngAns option classes.
	FormatAnswerKey Format = "answerkey"
)

// ErrUnknownFormat reports a document matching no registered detector.
var ErrUnknownFormat = errors.New("sheet: unrecognized document format")

// detectors run in priority order; the first matching predicate wins.
// The answer-key signature is checked first because its documents can
// also contain incidental "Q.No" text.
var detectors = []struct {
	format Format
	match  func(doc string) bool
}{
	{FormatAnswerKey, func(doc string) bool {
		return strings.Contains(doc, "AssessmentQPHTMLMode1") || strings.Contains(doc, "question-pnl")
	}},
	{FormatMultiPage, func(doc string) bool {
		return strings.Contains(doc, "Q.No:") || strings.Contains(doc, "Q.No.:")
	}},
}

// DetectFormat classifies a raw document. There is no default family: an
// unmatched document is an explicit failure, not a guess.
func DetectFormat(doc string) (Format, error) {
	for _, d := range detectors {
		if d.match(doc) {
			return d.format, nil
		}
	}
	return "", ErrUnknownFormat
}
