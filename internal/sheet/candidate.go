package sheet

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/surajktr/scoresight/internal/htmltext"
)

// Label aliases tried in order; the first alias with a non-empty value
// wins. Keys are normalized (lowercased, punctuation stripped).
var candidateAliases = []struct {
	set     func(*Candidate, string)
	aliases []string
}{
	{func(c *Candidate, v string) { c.RollNumber = v }, []string{"roll number", "roll no"}},
	{func(c *Candidate, v string) { c.Name = v }, []string{"candidate name", "participant name", "name"}},
	{func(c *Candidate, v string) { c.Venue = v }, []string{"venue name", "test center name", "test centre name", "centre name", "venue"}},
	{func(c *Candidate, v string) { c.ExamDate = v }, []string{"exam date", "test date", "date of exam"}},
	{func(c *Candidate, v string) { c.ExamTime = v }, []string{"exam time", "test time", "shift"}},
	{func(c *Candidate, v string) { c.Subject = v }, []string{"subject", "exam name", "test name"}},
}

// A table qualifies as the candidate-info table when its key map contains
// any of these.
var candidateMarkers = []string{"roll number", "roll no", "candidate name"}

var (
	reLabelJunk = regexp.MustCompile(`[^a-z0-9 ]+`)
	reManySpace = regexp.MustCompile(`\s+`)

	// D/M/Y-like or "D Month Y"-like.
	reDate = regexp.MustCompile(`(?i)\b(\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}|\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{4})\b`)
	// Shift number, named period, or an HH:MM AM/PM - HH:MM AM/PM range.
	reShift = regexp.MustCompile(`(?i)(shift\s*[-:]?\s*[0-9ivx]+|morning|forenoon|afternoon|evening|\d{1,2}[:.]\d{2}\s*(?:am|pm)?\s*(?:-|to|–)\s*\d{1,2}[:.]\d{2}\s*(?:am|pm)?)`)
)

// ExtractCandidate scans every table in the document for a key/value
// structure holding candidate identity and session metadata. Missing
// fields default to empty strings; the function never fails.
func ExtractCandidate(doc *goquery.Document) Candidate {
	var out Candidate
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		kv := tableKeyValues(tbl)
		if !hasAnyKey(kv, candidateMarkers) {
			return true
		}
		for _, field := range candidateAliases {
			for _, alias := range field.aliases {
				if v := kv[alias]; v != "" {
					field.set(&out, v)
					break
				}
			}
		}
		fillFromCombined(&out, kv)
		return false
	})
	return out
}

// ExtractCandidateHTML is ExtractCandidate over a raw document string.
func ExtractCandidateHTML(html string) Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Candidate{}
	}
	return ExtractCandidate(doc)
}

// fillFromCombined resolves date and shift from a combined "date & shift"
// style field when the discrete fields were absent.
func fillFromCombined(c *Candidate, kv map[string]string) {
	if c.ExamDate != "" && c.ExamTime != "" {
		return
	}
	for k, v := range kv {
		if v == "" || !strings.Contains(k, "date") {
			continue
		}
		if !strings.Contains(k, "shift") && !strings.Contains(k, "time") {
			continue
		}
		if c.ExamDate == "" {
			c.ExamDate = strings.TrimSpace(reDate.FindString(v))
		}
		if c.ExamTime == "" {
			c.ExamTime = strings.TrimSpace(reShift.FindString(v))
		}
		return
	}
}

// tableKeyValues maps first-cell text to second-cell text across rows
// with at least two cells.
func tableKeyValues(tbl *goquery.Selection) map[string]string {
	kv := map[string]string{}
	tbl.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td,th")
		if cells.Length() < 2 {
			return
		}
		key := normalizeLabel(cells.Eq(0).Text())
		if key == "" {
			return
		}
		val := strings.TrimSpace(htmltext.Decode(cells.Eq(1).Text()))
		if _, seen := kv[key]; !seen {
			kv[key] = val
		}
	})
	return kv
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(htmltext.Decode(s)))
	s = reLabelJunk.ReplaceAllString(s, " ")
	return strings.TrimSpace(reManySpace.ReplaceAllString(s, " "))
}

func hasAnyKey(kv map[string]string, keys []string) bool {
	for _, k := range keys {
		if _, ok := kv[k]; ok {
			return true
		}
	}
	return false
}
