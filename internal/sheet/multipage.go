package sheet

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/surajktr/scoresight/internal/assets"
)

var (
	reQNo        = regexp.MustCompile(`Q\.?\s*No\.?\s*:?\s*(\d+)`)
	reHindiMark  = regexp.MustCompile(`(?i)_hi(?:\.|$)`)
	reEngMark    = regexp.MustCompile(`(?i)_en(?:\.|$)`)
	reBgColorCSS = regexp.MustCompile(`(?i)background(?:-color)?\s*:\s*([#a-z0-9]+)`)
)

// rowColor is the color-coded selection/correctness marker of one option
// row. Green means selected-and-correct, red selected-and-wrong, yellow
// correct-but-not-selected.
type rowColor int

const (
	colorNone rowColor = iota
	colorGreen
	colorRed
	colorYellow
)

// ParsePart extracts one subject's questions from one page of the
// multi-page document family. Every question is a self-contained table
// holding a "Q.No:" marker; option rows are classified by background
// color. Malformed tables are skipped, never fatal. questionOffset is the
// cumulative question count of the subjects preceding this one.
func ParsePart(html, part, baseDir string, subj SubjectConfig, questionOffset int, tr Trace) []Question {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		tr.Notef("part %s: document unreadable: %v", part, err)
		return nil
	}

	var out []Question
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		// Nested tables would be visited again as their own selection;
		// only the innermost table containing the marker is the question.
		if tbl.Find("table").Length() > 0 {
			return
		}
		m := reQNo.FindStringSubmatch(tbl.Text())
		if m == nil {
			return
		}
		inSection, err := strconv.Atoi(m[1])
		if err != nil {
			return
		}
		q, ok := parseQuestionTable(tbl, baseDir, subj, tr)
		if !ok {
			tr.Notef("part %s: question %d discarded: fewer than 2 options", part, inSection)
			return
		}
		q.Number = questionOffset + inSection
		q.Part = part
		q.Subject = subj.Name
		out = append(out, q)
	})
	return out
}

func parseQuestionTable(tbl *goquery.Selection, baseDir string, subj SubjectConfig, tr Trace) (Question, bool) {
	var q Question
	var opts []Option
	seenQNo := false

	tbl.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !seenQNo {
			if reQNo.MatchString(row.Text()) {
				seenQNo = true
				if src, ok := firstImageSrc(row); ok {
					u := assets.Resolve(src, baseDir)
					v := assets.LanguageVariants(u)
					q.ImageURL, q.ImageURLHindi, q.ImageURLEnglish = u, v.Hindi, v.English
				}
			}
			return true
		}
		if len(opts) >= optionCount {
			return false
		}
		// An option row may carry two images, one per language. Rows with
		// no image at all are layout filler and do not count toward the
		// four-option limit.
		urls := rowImageURLs(row, baseDir)
		if len(urls) == 0 {
			return true
		}
		opt := Option{ID: optionLetters[len(opts)]}
		opt.ImageURL = urls[0]
		opt.ImageURLHindi, opt.ImageURLEnglish = classifyLanguages(urls)
		c := rowBackground(row)
		opt.IsCorrect = c == colorGreen || c == colorYellow
		opt.IsSelected = c == colorGreen || c == colorRed
		opts = append(opts, opt)
		return true
	})

	// The question row can render its image in a follow-up row rather
	// than inline; fall back to the first image in the table.
	if q.ImageURL == "" {
		if src, ok := firstImageSrc(tbl); ok {
			u := assets.Resolve(src, baseDir)
			v := assets.LanguageVariants(u)
			q.ImageURL, q.ImageURLHindi, q.ImageURLEnglish = u, v.Hindi, v.English
		}
	}

	if len(opts) < 2 {
		return Question{}, false
	}
	q.Options = padOptions(opts)
	q.Status, q.MarksAwarded, q.IsBonus = classify(q.Options, subj)
	return q, true
}

// classifyLanguages assigns each image URL to a language by its _HI/_EN
// filename marker, derives the sibling by filename pattern when only one
// marker is present, and mirrors a single ambiguous URL to both.
func classifyLanguages(urls []string) (hindi, english string) {
	for _, u := range urls {
		switch {
		case reHindiMark.MatchString(stemOf(u)) && hindi == "":
			hindi = u
		case reEngMark.MatchString(stemOf(u)) && english == "":
			english = u
		}
	}
	switch {
	case hindi == "" && english == "":
		// No markers at all: mirror the first URL to both languages.
		hindi, english = urls[0], urls[0]
		if len(urls) > 1 {
			english = urls[1]
		}
	case hindi == "":
		hindi = assets.LanguageVariants(english).Hindi
	case english == "":
		english = assets.LanguageVariants(hindi).English
	}
	return hindi, english
}

// stemOf drops the extension so the language-marker regexps can anchor at
// the end of the filename stem.
func stemOf(u string) string {
	if dot := strings.LastIndex(u, "."); dot > strings.LastIndex(u, "/") {
		return u[:dot]
	}
	return u
}

func rowImageURLs(row *goquery.Selection, baseDir string) []string {
	var urls []string
	row.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && strings.TrimSpace(src) != "" {
			urls = append(urls, assets.Resolve(src, baseDir))
		}
	})
	return urls
}

func firstImageSrc(sel *goquery.Selection) (string, bool) {
	img := sel.Find("img").First()
	if img.Length() == 0 {
		return "", false
	}
	src, ok := img.Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return "", false
	}
	return src, true
}

// rowBackground reads the color marker at the row level first, then falls
// back to per-cell markers.
func rowBackground(row *goquery.Selection) rowColor {
	if c := colorOf(row); c != colorNone {
		return c
	}
	found := colorNone
	row.Find("td,th").EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if c := colorOf(cell); c != colorNone {
			found = c
			return false
		}
		return true
	})
	return found
}

func colorOf(sel *goquery.Selection) rowColor {
	raw := strings.ToLower(sel.AttrOr("bgcolor", ""))
	if raw == "" {
		if m := reBgColorCSS.FindStringSubmatch(sel.AttrOr("style", "")); m != nil {
			raw = strings.ToLower(m[1])
		}
	}
	switch {
	case strings.Contains(raw, "green"):
		return colorGreen
	case strings.Contains(raw, "red"):
		return colorRed
	case strings.Contains(raw, "yellow"):
		return colorYellow
	default:
		return colorNone
	}
}
