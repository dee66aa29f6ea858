package analysis

import (
	"errors"
	"reflect"
	"testing"

	"github.com/surajktr/scoresight/internal/sheet"
)

func twoSubjectConfig() sheet.ExamConfig {
	return sheet.ExamConfig{
		Type:     "demo",
		Name:     "Demo Exam",
		MaxMarks: 12,
		Subjects: []sheet.SubjectConfig{
			{Name: "Reasoning", Part: "A", TotalQuestions: 2, MaxMarks: 6, CorrectMarks: 3, NegativeMarks: 1},
			{Name: "Awareness", Part: "B", TotalQuestions: 2, MaxMarks: 6, CorrectMarks: 3, NegativeMarks: 1},
		},
	}
}

const akPage = `
<div id="AssessmentQPHTMLMode1">
<table>
 <tr><td>Roll Number</td><td>12345</td></tr>
 <tr><td>Candidate Name</td><td>TEST USER</td></tr>
</table>
<div class="question-pnl"><table>
 <tr><td class="bold">Q.1</td><td class="bold">first</td></tr>
 <tr><td class="rightAns">1. a <img src="tick.png"></td></tr>
 <tr><td class="wrngAns">2. b</td></tr>
 <tr><td>Chosen Option : 1</td></tr>
</table></div>
<div class="question-pnl"><table>
 <tr><td class="bold">Q.2</td><td class="bold">second</td></tr>
 <tr><td class="rightAns">1. a</td></tr>
 <tr><td class="wrngAns">2. b <img src="tick.png"></td></tr>
 <tr><td>Chosen Option : 2</td></tr>
</table></div>
<div class="question-pnl"><table>
 <tr><td class="bold">Q.1</td><td class="bold">third</td></tr>
 <tr><td class="rightAns">1. a</td></tr>
 <tr><td class="wrngAns">2. b</td></tr>
 <tr><td>Chosen Option : --</td></tr>
</table></div>
</div>`

func multiPages() []string {
	pageA := `<table>
	 <tr><td>Roll Number</td><td>777</td></tr>
	 <tr><td>Candidate Name</td><td>MP USER</td></tr>
	</table>
	<table>
	 <tr><td>Q.No: 1</td></tr>
	 <tr bgcolor="green"><td><img src="a1.jpg"></td></tr>
	 <tr><td><img src="a2.jpg"></td></tr>
	</table>
	<table>
	 <tr><td>Q.No: 2</td></tr>
	 <tr><td><img src="b1.jpg"></td></tr>
	 <tr bgcolor="red"><td><img src="b2.jpg"></td></tr>
	 <tr><td bgcolor="yellow"><img src="b3.jpg"></td></tr>
	</table>`
	pageB := `<table>
	 <tr><td>Q.No: 1</td></tr>
	 <tr bgcolor="green"><td><img src="c1.jpg"></td></tr>
	 <tr><td><img src="c2.jpg"></td></tr>
	</table>`
	return []string{pageA, pageB}
}

func TestAnalyzeAnswerKey(t *testing.T) {
	res, err := Analyze([]string{akPage}, "https://x/", twoSubjectConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Format != sheet.FormatAnswerKey {
		t.Fatalf("format = %q", res.Format)
	}
	if res.Candidate.RollNumber != "12345" {
		t.Fatalf("candidate = %+v", res.Candidate)
	}
	if len(res.Questions) != 3 {
		t.Fatalf("questions = %d", len(res.Questions))
	}
	// With no section labels, the reassignment pass maps positions 1-2 to
	// Reasoning and position 3 to Awareness.
	if res.Questions[2].Subject != "Awareness" {
		t.Fatalf("q3 subject = %q", res.Questions[2].Subject)
	}
	// correct +3, wrong -1, unattempted 0
	if res.TotalScore != 2 {
		t.Fatalf("total = %v, want 2", res.TotalScore)
	}
	if res.MaxScore != 12 {
		t.Fatalf("max = %v", res.MaxScore)
	}
}

func TestAnalyzeMultiPage(t *testing.T) {
	res, err := Analyze(multiPages(), "https://cdn/", twoSubjectConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Format != sheet.FormatMultiPage {
		t.Fatalf("format = %q", res.Format)
	}
	if res.Candidate.Name != "MP USER" {
		t.Fatalf("candidate = %+v", res.Candidate)
	}
	if len(res.Questions) != 3 {
		t.Fatalf("questions = %d", len(res.Questions))
	}
	// Page B's first question lands after page A's range.
	if res.Questions[2].Number != 3 || res.Questions[2].Subject != "Awareness" {
		t.Fatalf("q3: %+v", res.Questions[2])
	}
	// A: correct +3, wrong -1; B: correct +3.
	if res.TotalScore != 5 {
		t.Fatalf("total = %v, want 5", res.TotalScore)
	}
	if res.Counts.Correct != 2 || res.Counts.Wrong != 1 {
		t.Fatalf("counts = %+v", res.Counts)
	}
}

func TestAnalyzeUnknownFormat(t *testing.T) {
	_, err := Analyze([]string{"<html><body>hello</body></html>"}, "", twoSubjectConfig())
	if !errors.Is(err, sheet.ErrUnknownFormat) {
		t.Fatalf("err = %v", err)
	}
}

func TestAnalyzeNoQuestions(t *testing.T) {
	// Signature present but nothing extractable.
	_, err := Analyze([]string{`<div class="question-pnl">empty</div>`}, "", twoSubjectConfig())
	if !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("err = %v", err)
	}
}

func TestCorrectedIsIdempotent(t *testing.T) {
	res, err := Analyze([]string{akPage}, "", twoSubjectConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	once := res.Corrected()
	twice := once.Corrected()
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("correction pass is not idempotent")
	}
	if !reflect.DeepEqual(once.Questions, res.Questions) {
		t.Fatalf("answer-key results are already corrected; pass must be a no-op")
	}
}
