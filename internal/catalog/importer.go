package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Workbook column layout: topic name, difficulty, clinical importance,
// exam relevance, optional condition group. One sheet per subject; the
// first row is a header.
const (
	colTopic = iota
	colDifficulty
	colClinical
	colExam
	colGroup
)

var titleCaser = cases.Title(language.BritishEnglish, cases.NoLower)

// ImportWorkbook reads a ratings workbook and returns its subjects in
// sheet order. Rows with a blank topic name or unparseable ratings are
// skipped rather than failing the import.
func ImportWorkbook(path string, blockCounts map[string]int) ([]Subject, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var subjects []Subject
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}

		subject := Subject{Name: canonicalName(sheet)}
		if n, ok := blockCounts[subject.Name]; ok {
			subject.BaseBlocks = n
		}
		groups := make(map[string][]string)
		var groupOrder []string

		for i, row := range rows {
			if i == 0 {
				continue // header
			}
			topic, ok := parseTopicRow(row)
			if !ok {
				continue
			}
			subject.Topics = append(subject.Topics, topic)

			if len(row) > colGroup {
				if g := strings.TrimSpace(row[colGroup]); g != "" {
					if _, seen := groups[g]; !seen {
						groupOrder = append(groupOrder, g)
					}
					groups[g] = append(groups[g], topic.Name)
				}
			}
		}

		if len(subject.Topics) == 0 {
			continue
		}
		for _, g := range groupOrder {
			subject.ConditionGroups = append(subject.ConditionGroups, ConditionGroup{
				Name:       g,
				Conditions: groups[g],
			})
		}
		subjects = append(subjects, subject)
	}

	if len(subjects) == 0 {
		return nil, fmt.Errorf("workbook %s contains no subject sheets", path)
	}
	return subjects, nil
}

func parseTopicRow(row []string) (Topic, bool) {
	if len(row) <= colExam {
		return Topic{}, false
	}
	name := strings.TrimSpace(row[colTopic])
	if name == "" {
		return Topic{}, false
	}

	d, err1 := strconv.ParseFloat(strings.TrimSpace(row[colDifficulty]), 64)
	c, err2 := strconv.ParseFloat(strings.TrimSpace(row[colClinical]), 64)
	e, err3 := strconv.ParseFloat(strings.TrimSpace(row[colExam]), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return Topic{}, false
	}

	return Topic{
		Name: name,
		Ratings: Ratings{
			Difficulty:         d,
			ClinicalImportance: c,
			ExamRelevance:      e,
		},
	}, true
}

// canonicalName normalises a sheet name into the catalog's subject naming
// style: trimmed, single-spaced, first word title-cased.
func canonicalName(sheet string) string {
	name := strings.Join(strings.Fields(sheet), " ")
	if name == "" {
		return name
	}
	words := strings.SplitN(name, " ", 2)
	words[0] = titleCaser.String(strings.ToLower(words[0]))
	return strings.Join(words, " ")
}
