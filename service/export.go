package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joshuadevelopsgames/LECRM-dev/model"
)

// ExportScorecardCSV serializes a scorecard response into the CSV layout
// of the shared scorecard sheet: a header row, a date row, two blank
// rows, then one block per section (questions, Sub-total, blank row),
// and finally the total and normalized score rows. Sections appear in
// the order their first question appears in the template.
func ExportScorecardCSV(response *model.ScorecardResponse, template *model.ScorecardTemplate, account *model.Account) string {
	var rows [][]string

	rows = append(rows, []string{"Scorecard", "Data", "Score", "Pass/Fail"})
	rows = append(rows, []string{"Date:", scorecardDisplayDate(response), strconv.Itoa(response.NormalizedScore), passFail(response.IsPass)})
	rows = append(rows, []string{"", "", "", ""})
	rows = append(rows, []string{"", "", "", ""})

	// Group template questions by section, keeping first-seen order
	type indexedQuestion struct {
		question model.ScorecardQuestion
		index    int
	}
	var sectionOrder []string
	bySection := make(map[string][]indexedQuestion)
	for i, question := range template.Questions {
		section := question.Section
		if section == "" {
			section = "Other"
		}
		if _, seen := bySection[section]; !seen {
			sectionOrder = append(sectionOrder, section)
		}
		bySection[section] = append(bySection[section], indexedQuestion{question, i})
	}

	for _, section := range sectionOrder {
		rows = append(rows, []string{section, "", "", ""})

		sectionTotal := 0.0
		for _, iq := range bySection[section] {
			resp := findResponse(response.Responses, iq.question.QuestionText, iq.index)

			answer := 0
			score := 0.0
			if resp != nil {
				answer = resp.Answer
				score = resp.WeightedScore
			}
			sectionTotal += score

			var answerText string
			if iq.question.AnswerType == model.AnswerTypeYesNo {
				if answer == 1 {
					answerText = "Yes"
				} else {
					answerText = "No"
				}
			} else {
				answerText = strconv.Itoa(answer)
			}

			rows = append(rows, []string{iq.question.QuestionText, answerText, formatScore(score), ""})
		}

		rows = append(rows, []string{"Sub-total", "", formatScore(sectionTotal), ""})
		rows = append(rows, []string{"", "", "", ""})
	}

	rows = append(rows, []string{"Total Score", "", formatScore(response.TotalScore), passFail(response.IsPass)})
	rows = append(rows, []string{"Normalized Score (out of 100)", "", strconv.Itoa(response.NormalizedScore), ""})

	lines := make([]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = escapeCSVCell(cell)
		}
		lines[i] = strings.Join(cells, ",")
	}
	return strings.Join(lines, "\n")
}

// findResponse associates a template question with its response: text
// equality first, positional index as fallback. Templates can be edited
// after a response was recorded, so neither association is reliable on
// its own; this mirrors how the scorecard sheet resolves it.
func findResponse(responses []model.QuestionResponse, questionText string, index int) *model.QuestionResponse {
	for i := range responses {
		if responses[i].QuestionText == questionText {
			return &responses[i]
		}
	}
	if index >= 0 && index < len(responses) {
		return &responses[index]
	}
	return nil
}

// scorecardDisplayDate formats the scorecard date like "January 2, 2006",
// falling back to the completion timestamp when no date was recorded.
func scorecardDisplayDate(response *model.ScorecardResponse) string {
	if response.ScorecardDate != "" {
		if d, err := time.Parse("2006-01-02", response.ScorecardDate); err == nil {
			return d.Format("January 2, 2006")
		}
	}
	return response.CompletedDate.Format("January 2, 2006")
}

func passFail(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}

// formatScore renders a weighted score without trailing zeros (5, 7.5).
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// escapeCSVCell wraps a cell in double quotes when it contains a comma,
// quote or newline, doubling internal quotes. No other escaping.
func escapeCSVCell(cell string) string {
	if strings.ContainsAny(cell, ",\"\n") {
		return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}

// ScorecardFilename builds the download filename
// {account}_{template}_{YYYY-MM-DD}.csv with every non-alphanumeric
// character in the stem replaced by an underscore.
func ScorecardFilename(account *model.Account, template *model.ScorecardTemplate, date time.Time) string {
	stem := fmt.Sprintf("%s_%s_%s", account.Name, template.Name, date.Format("2006-01-02"))

	var b strings.Builder
	for _, r := range stem {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String() + ".csv"
}
