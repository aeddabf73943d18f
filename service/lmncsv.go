package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joshuadevelopsgames/LECRM-dev/model"
)

// The golmn.com exports are plain CSVs with human-authored headers.
// Column lookup is by normalized header name so reordered exports and
// casing differences still parse.

// csvTable is a header-indexed view over parsed CSV rows.
type csvTable struct {
	columns map[string]int
	rows    [][]string
}

func readCSVTable(r io.Reader) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // LMN exports pad rows inconsistently
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty csv file")
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[normalizeHeader(name)] = i
	}

	return &csvTable{columns: columns, rows: records[1:]}, nil
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}

// get returns the trimmed cell under the first matching header name.
func (t *csvTable) get(row []string, names ...string) string {
	for _, name := range names {
		if i, ok := t.columns[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
	}
	return ""
}

// ParseContactsExport parses the primary LMN export into accounts and
// contacts. One account per distinct lead name; rows without a lead
// name attach their contact to no account.
func ParseContactsExport(r io.Reader) (*ContactsExport, error) {
	table, err := readCSVTable(r)
	if err != nil {
		return nil, fmt.Errorf("contacts export: %w", err)
	}

	out := &ContactsExport{}
	accountsByName := make(map[string]*model.Account)

	for _, row := range table.rows {
		leadName := table.get(row, "lead name", "company", "company name")

		var account *model.Account
		if leadName != "" {
			key := strings.ToLower(leadName)
			account = accountsByName[key]
			if account == nil {
				account = &model.Account{
					ID:          uuid.New().String(),
					Name:        leadName,
					LMNCRMID:    table.get(row, "crm id", "lmn crm id"),
					AccountType: table.get(row, "account type", "lead type"),
					Address1:    table.get(row, "address 1", "address"),
					City:        table.get(row, "city"),
					State:       table.get(row, "state", "province"),
					PostalCode:  table.get(row, "postal code", "zip"),
					Notes:       table.get(row, "account notes"),
					Archived:    parseCSVBool(table.get(row, "archived")),
				}
				if tags := table.get(row, "tags", "crm tags"); tags != "" {
					account.Tags = splitTags(tags)
				}
				accountsByName[key] = account
				out.Accounts = append(out.Accounts, account)
			}
		}

		firstName := table.get(row, "first name")
		lastName := table.get(row, "last name")
		email1 := table.get(row, "email 1", "email")
		if firstName == "" && lastName == "" && email1 == "" {
			continue // account-only row
		}

		contact := &model.Contact{
			ID:           uuid.New().String(),
			LMNContactID: table.get(row, "contact id", "lmn contact id"),
			FirstName:    firstName,
			LastName:     lastName,
			Email1:       email1,
			Email2:       table.get(row, "email 2"),
			Phone1:       table.get(row, "phone 1", "phone"),
			Phone2:       table.get(row, "phone 2"),
			Title:        table.get(row, "title"),
			Notes:        table.get(row, "notes"),
		}
		if account != nil {
			contact.AccountID = account.ID
		}
		out.Contacts = append(out.Contacts, contact)
	}

	return out, nil
}

// ParseLeadsList parses the supplemental leads-list export.
func ParseLeadsList(r io.Reader) ([]*model.Lead, error) {
	table, err := readCSVTable(r)
	if err != nil {
		return nil, fmt.Errorf("leads list: %w", err)
	}

	leads := make([]*model.Lead, 0, len(table.rows))
	for _, row := range table.rows {
		lead := &model.Lead{
			FirstName:       table.get(row, "first name"),
			LastName:        table.get(row, "last name"),
			Email1:          table.get(row, "email 1", "email"),
			Position:        table.get(row, "position"),
			DoNotEmail:      parseCSVBool(table.get(row, "do not email")),
			DoNotMail:       parseCSVBool(table.get(row, "do not mail")),
			DoNotCall:       parseCSVBool(table.get(row, "do not call")),
			ReferralSource:  table.get(row, "referral source"),
			NotesSupplement: table.get(row, "notes"),
		}
		if lead.FirstName == "" && lead.LastName == "" && lead.Email1 == "" {
			continue
		}
		leads = append(leads, lead)
	}

	return leads, nil
}

// ParseEstimates parses the LMN estimates export.
func ParseEstimates(r io.Reader) ([]*model.Estimate, error) {
	table, err := readCSVTable(r)
	if err != nil {
		return nil, fmt.Errorf("estimates: %w", err)
	}

	estimates := make([]*model.Estimate, 0, len(table.rows))
	for _, row := range table.rows {
		est := &model.Estimate{
			ID:                table.get(row, "estimate id", "estimate #"),
			LMNContactID:      table.get(row, "contact id", "lmn contact id"),
			ContactName:       table.get(row, "contact name"),
			ProjectName:       table.get(row, "project name", "estimate name"),
			Status:            normalizeEstimateStatus(table.get(row, "status", "estimate status")),
			TotalPrice:        parseMoney(table.get(row, "total price", "total")),
			TotalPriceWithTax: parseMoney(table.get(row, "total price with tax", "total with tax")),
			CRMTags:           table.get(row, "crm tags", "tags"),
		}
		if est.LMNContactID == "" && est.ContactName == "" && est.ProjectName == "" {
			continue
		}
		estimates = append(estimates, est)
	}

	return estimates, nil
}

// ParseJobsites parses the LMN jobsite export.
func ParseJobsites(r io.Reader) ([]*model.Jobsite, error) {
	table, err := readCSVTable(r)
	if err != nil {
		return nil, fmt.Errorf("jobsites: %w", err)
	}

	jobsites := make([]*model.Jobsite, 0, len(table.rows))
	for _, row := range table.rows {
		js := &model.Jobsite{
			ID:           table.get(row, "jobsite id"),
			LMNContactID: table.get(row, "contact id", "lmn contact id"),
			ContactName:  table.get(row, "contact name"),
			Name:         table.get(row, "jobsite name", "name"),
		}
		if js.LMNContactID == "" && js.ContactName == "" && js.Name == "" {
			continue
		}
		jobsites = append(jobsites, js)
	}

	return jobsites, nil
}

// normalizeEstimateStatus maps export status spellings onto won/lost;
// anything else passes through lower-cased.
func normalizeEstimateStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	switch s {
	case "won", "win", "awarded":
		return model.EstimateStatusWon
	case "lost", "lose", "declined":
		return model.EstimateStatusLost
	default:
		return s
	}
}

// parseMoney parses "$12,345.67" style amounts; unparseable input is 0.
func parseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = strings.TrimSuffix(strings.TrimPrefix(cleaned, "("), ")")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	if negative {
		return -v
	}
	return v
}

// parseCSVBool treats yes/true/1/x as true.
func parseCSVBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "x", "y":
		return true
	default:
		return false
	}
}

func splitTags(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ';' || r == ','
	})
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
