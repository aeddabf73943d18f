package service

import (
	"strings"

	"github.com/joshuadevelopsgames/LECRM-dev/model"
)

// ContactsExport is the parsed primary LMN export: accounts plus the
// contacts that reference them.
type ContactsExport struct {
	Accounts []*model.Account
	Contacts []*model.Contact
}

// MergeStats summarizes a merge run.
type MergeStats struct {
	TotalAccounts     int `json:"totalAccounts"`
	TotalContacts     int `json:"totalContacts"`
	MatchedContacts   int `json:"matchedContacts"`
	UnmatchedContacts int `json:"unmatchedContacts"`
	MatchRate         int `json:"matchRate"` // percentage, 0 when no contacts
}

// MergeResult is the reconciled dataset. All records are fresh values;
// the inputs are never modified.
type MergeResult struct {
	Accounts  []*model.Account  `json:"accounts"`
	Contacts  []*model.Contact  `json:"contacts"`
	Estimates []*model.Estimate `json:"estimates"`
	Jobsites  []*model.Jobsite  `json:"jobsites"`
	Stats     MergeStats        `json:"stats"`
}

// MergeContactData reconciles the two LMN exports plus the estimate and
// jobsite exports into a single dataset. Contacts from the contacts
// export are enriched with leads-list supplemental fields where a match
// is found; each account gets annual_revenue and organization_score
// computed from its won estimates and jobsite activity. Estimates and
// jobsites that resolve to an account come back with that account's id
// filled in so later scoring can group them without re-matching.
func MergeContactData(contactsExport *ContactsExport, leads []*model.Lead, estimates []*model.Estimate, jobsites []*model.Jobsite) *MergeResult {
	idx := NewSupplementalIndex(leads)

	// Merge supplemental data into contacts
	mergedContacts := make([]*model.Contact, 0, len(contactsExport.Contacts))
	matched := 0
	for _, base := range contactsExport.Contacts {
		contact := mergeContact(base, idx.Resolve(base))
		if contact.Matched {
			matched++
		}
		mergedContacts = append(mergedContacts, contact)
	}

	// Copy estimates and jobsites so account resolution never touches
	// the caller's records
	outEstimates := make([]*model.Estimate, len(estimates))
	for i, est := range estimates {
		cp := *est
		outEstimates[i] = &cp
	}
	outJobsites := make([]*model.Jobsite, len(jobsites))
	for i, js := range jobsites {
		cp := *js
		outJobsites[i] = &cp
	}

	// Compute revenue and score per account
	outAccounts := make([]*model.Account, 0, len(contactsExport.Accounts))
	for _, src := range contactsExport.Accounts {
		account := *src

		contactIDs := accountContactIDs(mergedContacts, account.ID)
		accountEstimates := estimatesForAccount(&account, contactIDs, outEstimates)
		accountJobsites := jobsitesForAccount(&account, contactIDs, outJobsites)

		for _, est := range accountEstimates {
			est.AccountID = account.ID
		}
		for _, js := range accountJobsites {
			js.AccountID = account.ID
		}

		var revenue float64
		won := 0
		lost := 0
		for _, est := range accountEstimates {
			switch est.Status {
			case model.EstimateStatusWon:
				won++
				revenue += estimateRevenue(est)
			case model.EstimateStatusLost:
				lost++
			}
		}

		account.OrganizationScore = CalculateAccountScore(AccountActivity{
			Revenue:        revenue,
			TotalEstimates: len(accountEstimates),
			WonEstimates:   won,
			LostEstimates:  lost,
			JobsitesCount:  len(accountJobsites),
		})
		if revenue > 0 {
			r := revenue
			account.AnnualRevenue = &r
		} else {
			account.AnnualRevenue = nil
		}

		outAccounts = append(outAccounts, &account)
	}

	total := len(mergedContacts)
	matchRate := 0
	if total > 0 {
		matchRate = roundPercent(matched, total)
	}

	return &MergeResult{
		Accounts:  outAccounts,
		Contacts:  mergedContacts,
		Estimates: outEstimates,
		Jobsites:  outJobsites,
		Stats: MergeStats{
			TotalAccounts:     len(contactsExport.Accounts),
			TotalContacts:     total,
			MatchedContacts:   matched,
			UnmatchedContacts: total - matched,
			MatchRate:         matchRate,
		},
	}
}

// mergeContact produces the output contact for a base record and its
// resolved supplemental row (nil when unmatched).
func mergeContact(base *model.Contact, supp *model.Lead) *model.Contact {
	contact := *base

	if supp != nil {
		position := supp.Position
		if position == "" {
			position = base.Position
		}

		contact.Position = position
		contact.Title = position // position doubles as title
		if contact.Role == "" {
			contact.Role = RoleFromPosition(position)
		}
		contact.DoNotEmail = supp.DoNotEmail
		contact.DoNotMail = supp.DoNotMail
		contact.DoNotCall = supp.DoNotCall
		contact.ReferralSource = supp.ReferralSource
		contact.Notes = mergeNotes(base.Notes, supp.NotesSupplement)
		contact.DataSource = model.DataSourceMerged
		contact.Matched = true
		return &contact
	}

	contact.Position = ""
	if contact.Role == "" {
		contact.Role = model.RoleUser
	}
	contact.DoNotEmail = false
	contact.DoNotMail = false
	contact.DoNotCall = false
	contact.DataSource = model.DataSourceContactsExportOnly
	contact.Matched = false
	return &contact
}

// accountContactIDs collects the LMN contact ids of an account's contacts.
func accountContactIDs(contacts []*model.Contact, accountID string) map[string]bool {
	ids := make(map[string]bool)
	for _, c := range contacts {
		if c.AccountID == accountID && c.LMNContactID != "" {
			ids[c.LMNContactID] = true
		}
	}
	return ids
}

// estimatesForAccount gathers an account's estimates through a three-tier
// fallback chain: contact id, then contact name equal to the account
// name, then CRM tags containing the account's external CRM id. Each
// tier is attempted only when the previous one found nothing.
func estimatesForAccount(account *model.Account, contactIDs map[string]bool, estimates []*model.Estimate) []*model.Estimate {
	var result []*model.Estimate
	for _, est := range estimates {
		if est.LMNContactID != "" && contactIDs[est.LMNContactID] {
			result = append(result, est)
		}
	}
	if len(result) > 0 {
		return result
	}

	if account.Name != "" {
		nameLower := strings.ToLower(strings.TrimSpace(account.Name))
		for _, est := range estimates {
			if strings.ToLower(strings.TrimSpace(est.ContactName)) == nameLower {
				result = append(result, est)
			}
		}
		if len(result) > 0 {
			return result
		}
	}

	if account.LMNCRMID != "" {
		crmID := strings.ToLower(account.LMNCRMID)
		for _, est := range estimates {
			if strings.Contains(strings.ToLower(est.CRMTags), crmID) {
				result = append(result, est)
			}
		}
	}

	return result
}

// jobsitesForAccount gathers an account's jobsites: contact id first,
// then contact name equal to the account name.
func jobsitesForAccount(account *model.Account, contactIDs map[string]bool, jobsites []*model.Jobsite) []*model.Jobsite {
	var result []*model.Jobsite
	for _, js := range jobsites {
		if js.LMNContactID != "" && contactIDs[js.LMNContactID] {
			result = append(result, js)
		}
	}
	if len(result) > 0 {
		return result
	}

	if account.Name != "" {
		nameLower := strings.ToLower(strings.TrimSpace(account.Name))
		for _, js := range jobsites {
			if strings.ToLower(strings.TrimSpace(js.ContactName)) == nameLower {
				result = append(result, js)
			}
		}
	}

	return result
}

// estimateRevenue prefers the tax-inclusive total; a zero tax-inclusive
// total falls back to the plain total, matching the source exports
// where the with-tax column is often unpopulated.
func estimateRevenue(est *model.Estimate) float64 {
	if est.TotalPriceWithTax != 0 {
		return est.TotalPriceWithTax
	}
	return est.TotalPrice
}

// mergeNotes joins notes from both exports, skipping duplicates.
func mergeNotes(notes1, notes2 string) string {
	parts := make([]string, 0, 2)
	if notes1 != "" {
		parts = append(parts, notes1)
	}
	if notes2 != "" && notes2 != notes1 {
		parts = append(parts, notes2)
	}
	return strings.Join(parts, "\n\n")
}

// RoleFromPosition infers a CRM role from a free-text position.
func RoleFromPosition(position string) string {
	if position == "" {
		return model.RoleUser
	}

	normalized := strings.ToLower(position)

	for _, kw := range []string{"owner", "ceo", "president", "cfo", "coo", "founder"} {
		if strings.Contains(normalized, kw) {
			return model.RoleDecisionMaker
		}
	}

	for _, kw := range []string{"manager", "director", "head of", "vp", "vice president"} {
		if strings.Contains(normalized, kw) {
			return model.RoleInfluencer
		}
	}

	return model.RoleUser
}

// roundPercent rounds matched/total to a whole percentage.
func roundPercent(part, total int) int {
	return int(float64(part)/float64(total)*100 + 0.5)
}
