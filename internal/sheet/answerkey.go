package sheet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/surajktr/scoresight/internal/assets"
	"github.com/surajktr/scoresight/internal/htmltext"
)

const (
	panelMarker   = "question-pnl"
	sectionMarker = "section-lbl"
)

var (
	reQLabel       = regexp.MustCompile(`^Q\.?\s*\d+`)
	reOrdinal      = regexp.MustCompile(`^\s*(\d+)\s*\.\s*`)
	reChosenOption = regexp.MustCompile(`Chosen\s*Option\s*:?\s*([1-4]|--|-)`)
	reModuleLabel  = regexp.MustCompile(`(?i)(?:module|part|section)\s*[-: ]*\s*\b([ivx]+)\b`)
	reAltJunk      = regexp.MustCompile(`(?i)begin\s+mathsize[^ ]*( \d+px)?|end\s+style|\bstyle\b`)
)

// AnswerKeyResult is the outcome of parsing one consolidated single-page
// document: every question across all sections plus candidate metadata.
type AnswerKeyResult struct {
	Questions []Question
	Candidate Candidate
}

// ParseAnswerKey extracts all questions from the single-page answer-key
// family. Panels are located by character offset of the question-pnl
// marker; each panel belongs to the nearest preceding section label.
// Question numbering is strictly sequential in document order and ignores
// the per-section display numbers printed inside panels.
func ParseAnswerKey(html, baseDir string, cfg ExamConfig, tr Trace) AnswerKeyResult {
	res := AnswerKeyResult{Candidate: ExtractCandidateHTML(html)}

	labels := sectionLabels(html, tr)
	panels := markerOffsets(html, panelMarker)

	for i, off := range panels {
		end := len(html)
		if i+1 < len(panels) {
			end = panels[i+1]
		}
		start := strings.LastIndex(html[:off], "<")
		if start < 0 {
			start = off
		}
		subjIdx := sectionFor(labels, off)
		if subjIdx >= len(cfg.Subjects) {
			subjIdx = len(cfg.Subjects) - 1
		}
		subj := SubjectConfig{}
		if subjIdx >= 0 {
			subj = cfg.Subjects[subjIdx]
		}
		q, ok := parsePanel(html[start:end], baseDir, subj, tr)
		if !ok {
			tr.Notef("panel %d discarded: fewer than 2 options", i+1)
			continue
		}
		q.Number = len(res.Questions) + 1
		res.Questions = append(res.Questions, q)
	}
	return res
}

// sectionLabel pairs a document offset with the subject index its label
// resolves to.
type sectionLabel struct {
	offset  int
	subject int
}

// sectionLabels maps every section-label marker to a subject index,
// preferring an explicit roman-numeral module label and falling back to
// positional order.
func sectionLabels(html string, tr Trace) []sectionLabel {
	offs := markerOffsets(html, sectionMarker)
	out := make([]sectionLabel, 0, len(offs))
	for pos, off := range offs {
		idx := pos
		window := html[off:min(off+400, len(html))]
		if m := reModuleLabel.FindStringSubmatch(htmltext.Decode(window)); m != nil {
			if n, ok := romanIndex(m[1]); ok {
				idx = n
			} else {
				tr.Notef("section label %d: unreadable numeral %q", pos+1, m[1])
			}
		}
		out = append(out, sectionLabel{offset: off, subject: idx})
	}
	return out
}

// sectionFor returns the subject of the nearest label preceding off, or
// the first subject when no label precedes it.
func sectionFor(labels []sectionLabel, off int) int {
	subj := 0
	for _, l := range labels {
		if l.offset > off {
			break
		}
		subj = l.subject
	}
	return subj
}

func markerOffsets(html, marker string) []int {
	var offs []int
	for from := 0; ; {
		i := strings.Index(html[from:], marker)
		if i < 0 {
			return offs
		}
		offs = append(offs, from+i)
		from += i + len(marker)
	}
}

// romanIndex maps I→0, II→1, ... for the small numerals section labels
// use.
func romanIndex(s string) (int, bool) {
	vals := map[string]int{"i": 1, "ii": 2, "iii": 3, "iv": 4, "v": 5, "vi": 6, "vii": 7, "viii": 8, "ix": 9, "x": 10}
	n, ok := vals[strings.ToLower(s)]
	return n - 1, ok
}

func parsePanel(panelHTML, baseDir string, subj SubjectConfig, tr Trace) (Question, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(panelHTML))
	if err != nil {
		return Question{}, false
	}

	q := Question{Part: subj.Part, Subject: subj.Name}
	q.Text, q.ImageURL = panelContent(doc, baseDir)
	if v := assets.LanguageVariants(q.ImageURL); q.ImageURL != "" {
		q.ImageURLHindi, q.ImageURLEnglish = v.Hindi, v.English
	}

	var opts []Option
	doc.Find("td.rightAns, td.wrngAns").Each(func(_ int, cell *goquery.Selection) {
		if len(opts) >= optionCount {
			return
		}
		opt := Option{IsCorrect: cell.HasClass("rightAns")}
		text := htmltext.Decode(cellHTML(cell))
		if m := reOrdinal.FindStringSubmatch(text); m != nil {
			text = text[len(m[0]):]
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= optionCount {
				opt.ID = optionLetters[n-1]
			}
		}
		if opt.ID == "" {
			opt.ID = optionLetters[len(opts)]
		}
		opt.Text = strings.TrimSpace(text)
		cell.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
			src := img.AttrOr("src", "")
			if isTickOrCross(src) {
				opt.IsSelected = opt.IsSelected || isTick(src)
				return true
			}
			if opt.ImageURL == "" && strings.TrimSpace(src) != "" {
				u := assets.Resolve(src, baseDir)
				v := assets.LanguageVariants(u)
				opt.ImageURL, opt.ImageURLHindi, opt.ImageURLEnglish = u, v.Hindi, v.English
			}
			return true
		})
		opts = append(opts, opt)
	})

	if len(opts) < 2 {
		return Question{}, false
	}

	applyChosenOption(doc.Text(), opts)
	q.Options = padOptions(opts)
	q.Status, q.MarksAwarded, q.IsBonus = classify(q.Options, subj)
	return q, true
}

// applyChosenOption honors the panel's explicit "Chosen Option" field: a
// digit in range overrides whatever selection the tick-mark images
// implied; "--" or empty leaves the tick-derived state alone.
func applyChosenOption(panelText string, opts []Option) {
	m := reChosenOption.FindStringSubmatch(panelText)
	if m == nil {
		return
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > len(opts) {
		return
	}
	for i := range opts {
		opts[i].IsSelected = i == n-1
	}
}

// panelContent finds the question text and question image. The text lives
// in a bold table cell following the "Q.<n>" display label; when it is
// effectively empty (≤3 chars) and the image carries an alt attribute,
// the cleaned alt text is used instead.
func panelContent(doc *goquery.Document, baseDir string) (text, imageURL string) {
	seenLabel := false
	doc.Find("td.bold").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		t := strings.TrimSpace(cell.Text())
		if !seenLabel {
			if reQLabel.MatchString(t) {
				seenLabel = true
			}
			return true
		}
		text = htmltext.Decode(cellHTML(cell))
		return false
	})

	var alt string
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := img.AttrOr("src", "")
		if isTickOrCross(src) || strings.TrimSpace(src) == "" {
			return true
		}
		imageURL = assets.Resolve(src, baseDir)
		alt = img.AttrOr("alt", "")
		return false
	})

	if len(strings.TrimSpace(text)) <= 3 && strings.TrimSpace(alt) != "" {
		text = cleanAltText(alt)
	}
	return text, imageURL
}

// cleanAltText strips the markup-formula tokens providers leave in image
// alt attributes.
func cleanAltText(alt string) string {
	s := reAltJunk.ReplaceAllString(alt, " ")
	s = strings.ReplaceAll(s, " squared", "²")
	s = strings.ReplaceAll(s, " comma", ",")
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if strings.EqualFold(f, "space") {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

func cellHTML(cell *goquery.Selection) string {
	h, err := cell.Html()
	if err != nil {
		return cell.Text()
	}
	return h
}

func isTickOrCross(src string) bool {
	s := strings.ToLower(src)
	return strings.Contains(s, "tick") || strings.Contains(s, "cross")
}

func isTick(src string) bool {
	return strings.Contains(strings.ToLower(src), "tick")
}
