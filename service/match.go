package service

import (
	"strings"

	"github.com/joshuadevelopsgames/LECRM-dev/model"
)

// BuildMatchKey builds the composite key used to correlate a contact
// across the two LMN exports. Present fields are lower-cased, trimmed
// and joined with "|"; absent fields are omitted, so a contact with no
// last name still matches on first name + email. A contact with no name
// and no email yields the empty key; empty keys are never indexed, so
// such contacts simply go unmatched.
func BuildMatchKey(firstName, lastName, email1 string) string {
	parts := make([]string, 0, 3)

	if firstName != "" {
		parts = append(parts, strings.ToLower(strings.TrimSpace(firstName)))
	}
	if lastName != "" {
		parts = append(parts, strings.ToLower(strings.TrimSpace(lastName)))
	}
	if email1 != "" {
		parts = append(parts, strings.ToLower(strings.TrimSpace(email1)))
	}

	return strings.Join(parts, "|")
}

// SupplementalIndex indexes leads-list rows by composite match key and
// by lowercase email for the fallback lookup.
type SupplementalIndex struct {
	byKey   map[string]*model.Lead
	byEmail map[string]*model.Lead
}

// NewSupplementalIndex builds an index over the leads-list export.
// Later rows with the same key overwrite earlier ones.
func NewSupplementalIndex(leads []*model.Lead) *SupplementalIndex {
	idx := &SupplementalIndex{
		byKey:   make(map[string]*model.Lead, len(leads)),
		byEmail: make(map[string]*model.Lead, len(leads)),
	}

	for _, lead := range leads {
		key := BuildMatchKey(lead.FirstName, lead.LastName, lead.Email1)
		if key != "" {
			idx.byKey[key] = lead
		}
		if lead.Email1 != "" {
			idx.byEmail[strings.ToLower(lead.Email1)] = lead
		}
	}

	return idx
}

// Resolve finds the supplemental row for a contact. Lookup order:
// composite match key, then exact case-insensitive email_1, then the
// generic email field. First hit wins; there is no fuzzy matching, so
// correctness depends on exact normalized equality.
func (idx *SupplementalIndex) Resolve(contact *model.Contact) *model.Lead {
	key := BuildMatchKey(contact.FirstName, contact.LastName, contact.Email1)
	if lead, ok := idx.byKey[key]; ok {
		return lead
	}

	if contact.Email1 != "" {
		if lead, ok := idx.byEmail[strings.ToLower(contact.Email1)]; ok {
			return lead
		}
	}
	if contact.Email != "" {
		if lead, ok := idx.byEmail[strings.ToLower(contact.Email)]; ok {
			return lead
		}
	}

	return nil
}
