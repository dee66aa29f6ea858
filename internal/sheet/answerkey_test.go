package sheet

import (
	"strings"
	"testing"
)

var twoModuleConfig = ExamConfig{
	Type:     "tier2",
	Name:     "Tier II",
	MaxMarks: 90,
	Subjects: []SubjectConfig{
		{Name: "Mathematical Abilities", Part: "A", TotalQuestions: 2, MaxMarks: 60, CorrectMarks: 3, NegativeMarks: 1},
		{Name: "Reasoning", Part: "B", TotalQuestions: 2, MaxMarks: 30, CorrectMarks: 3, NegativeMarks: 1, IsQualifying: false},
	},
}

const answerKeyDoc = `
<html><body><div id="AssessmentQPHTMLMode1">
<table>
 <tr><td>Roll Number</td><td>440022</td></tr>
 <tr><td>Candidate Name</td><td>ANITA DEVI</td></tr>
</table>

<div class="section-lbl"><span class="bold">Section : Module I</span></div>

<div class="question-pnl"><table>
 <tr><td class="bold">Q.7</td><td class="bold">What is 3<sup>2</sup>?</td></tr>
 <tr><td class="rightAns">1. 9 <img src="img/tick.png"></td></tr>
 <tr><td class="wrngAns">2. 6</td></tr>
 <tr><td class="wrngAns">3. 12</td></tr>
 <tr><td class="wrngAns">4. 27</td></tr>
 <tr><td>Chosen Option : 1</td></tr>
</table></div>

<div class="question-pnl"><table>
 <tr><td class="bold">Q.8</td><td class="bold"><img src="img/Q8_EN.jpg" alt="begin mathsize 14px style x squared end style"></td></tr>
 <tr><td class="wrngAns">1. 1</td></tr>
 <tr><td class="rightAns">2. 2</td></tr>
 <tr><td class="wrngAns">3. 3 <img src="img/tick.png"></td></tr>
 <tr><td class="wrngAns">4. 4</td></tr>
 <tr><td>Chosen Option : 2</td></tr>
</table></div>

<div class="section-lbl"><span class="bold">Section : Module II</span></div>

<div class="question-pnl"><table>
 <tr><td class="bold">Q.1</td><td class="bold">All options were wrong here</td></tr>
 <tr><td class="wrngAns">1. a</td></tr>
 <tr><td class="wrngAns">2. b</td></tr>
 <tr><td class="wrngAns">3. c</td></tr>
 <tr><td class="wrngAns">4. d</td></tr>
 <tr><td>Chosen Option : 4</td></tr>
</table></div>

<div class="question-pnl"><table>
 <tr><td class="bold">Q.2</td><td class="bold">Left blank</td></tr>
 <tr><td class="rightAns">1. yes</td></tr>
 <tr><td class="wrngAns">2. no</td></tr>
 <tr><td class="wrngAns">3. maybe</td></tr>
 <tr><td class="wrngAns">4. never</td></tr>
 <tr><td>Chosen Option : --</td></tr>
</table></div>
</div></body></html>`

func TestParseAnswerKey(t *testing.T) {
	tr := &Collector{}
	res := ParseAnswerKey(answerKeyDoc, "https://cdn.example.com/key", twoModuleConfig, tr)

	if res.Candidate.RollNumber != "440022" || res.Candidate.Name != "ANITA DEVI" {
		t.Fatalf("candidate = %+v", res.Candidate)
	}
	if len(res.Questions) != 4 {
		t.Fatalf("got %d questions, want 4", len(res.Questions))
	}

	// Numbering is global document order, not the printed Q.<n> labels.
	for i, q := range res.Questions {
		if q.Number != i+1 {
			t.Errorf("question %d: number = %d", i, q.Number)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d: %d options", i, len(q.Options))
		}
	}

	q1 := res.Questions[0]
	if q1.Subject != "Mathematical Abilities" || q1.Part != "A" {
		t.Fatalf("q1 subject/part = %q/%q", q1.Subject, q1.Part)
	}
	if q1.Text != "What is 3²?" {
		t.Fatalf("q1 text = %q", q1.Text)
	}
	if q1.Status != StatusCorrect || q1.MarksAwarded != 3 {
		t.Fatalf("q1 status %q marks %v", q1.Status, q1.MarksAwarded)
	}
	if got := q1.Options[0]; !got.IsCorrect || !got.IsSelected || got.Text != "9" {
		t.Fatalf("q1 option 1: %+v", got)
	}

	// Empty bold cell plus alt-carrying image: alt text wins, formula
	// tokens stripped. The explicit Chosen Option (2) overrides the stray
	// tick on option 3.
	q2 := res.Questions[1]
	if q2.Text != "x²" {
		t.Fatalf("q2 text = %q", q2.Text)
	}
	if q2.ImageURL != "https://cdn.example.com/key/img/Q8_EN.jpg" {
		t.Fatalf("q2 image = %q", q2.ImageURL)
	}
	if q2.ImageURLHindi != "https://cdn.example.com/key/img/Q8_HI.jpg" {
		t.Fatalf("q2 hindi image = %q", q2.ImageURLHindi)
	}
	if !q2.Options[1].IsSelected || q2.Options[2].IsSelected {
		t.Fatalf("q2 chosen-option override failed: %+v", q2.Options)
	}
	if q2.Status != StatusCorrect {
		t.Fatalf("q2 status = %q", q2.Status)
	}

	// Module II questions belong to the second subject.
	q3 := res.Questions[2]
	if q3.Subject != "Reasoning" || q3.Part != "B" {
		t.Fatalf("q3 subject/part = %q/%q", q3.Subject, q3.Part)
	}
	// No rightAns anywhere: bonus with full credit despite a selection.
	if q3.Status != StatusBonus || !q3.IsBonus || q3.MarksAwarded != 3 {
		t.Fatalf("q3: status %q marks %v bonus %v", q3.Status, q3.MarksAwarded, q3.IsBonus)
	}

	q4 := res.Questions[3]
	if q4.Status != StatusUnattempted || q4.MarksAwarded != 0 {
		t.Fatalf("q4: status %q marks %v", q4.Status, q4.MarksAwarded)
	}
}

func TestParseAnswerKeyDiscardsThinPanels(t *testing.T) {
	doc := `<div class="question-pnl"><table>
	 <tr><td class="bold">Q.1</td><td class="bold">only one option</td></tr>
	 <tr><td class="rightAns">1. lonely</td></tr>
	</table></div>`
	tr := &Collector{}
	res := ParseAnswerKey(doc, "", twoModuleConfig, tr)
	if len(res.Questions) != 0 {
		t.Fatalf("expected panel discarded, got %d questions", len(res.Questions))
	}
	if len(tr.Notes) != 1 || !strings.Contains(tr.Notes[0], "discarded") {
		t.Fatalf("expected discard diagnostic, got %v", tr.Notes)
	}
}

func TestDetectFormat(t *testing.T) {
	if f, err := DetectFormat(answerKeyDoc); err != nil || f != FormatAnswerKey {
		t.Fatalf("answer key detection: %v %v", f, err)
	}
	if f, err := DetectFormat(multiPageDoc); err != nil || f != FormatMultiPage {
		t.Fatalf("multi page detection: %v %v", f, err)
	}
	if _, err := DetectFormat("<html><body>plain page</body></html>"); err != ErrUnknownFormat {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}
