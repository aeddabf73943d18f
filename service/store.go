package service

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/joshuadevelopsgames/LECRM-dev/config"
	"github.com/joshuadevelopsgames/LECRM-dev/model"
)

// CRMStore is an in-memory stand-in for the hosted entity store,
// exposing the same create/list/filter/update verbs the app would call
// on the hosted backend.
type CRMStore struct {
	mu        sync.RWMutex
	accounts  map[string]*model.Account
	contacts  map[string]*model.Contact
	estimates []*model.Estimate
	jobsites  []*model.Jobsite
	templates map[string]*model.ScorecardTemplate
	responses map[string]*model.ScorecardResponse

	maxResponsesPerAccount int
}

var (
	globalStore *CRMStore
	storeOnce   sync.Once
)

// InitCRMStore initializes the global store with configuration
func InitCRMStore(cfg *config.Store) {
	storeOnce.Do(func() {
		maxResponses := cfg.MaxResponsesPerAccount
		if maxResponses < 0 {
			maxResponses = 0
		}
		globalStore = newCRMStore(maxResponses)
		slog.Info("crm store initialized", "max_responses_per_account", maxResponses)
	})
}

// GetCRMStore returns the global store
func GetCRMStore() *CRMStore {
	if globalStore == nil {
		// Fallback initialization with default settings
		globalStore = newCRMStore(0)
	}
	return globalStore
}

func newCRMStore(maxResponsesPerAccount int) *CRMStore {
	return &CRMStore{
		accounts:               make(map[string]*model.Account),
		contacts:               make(map[string]*model.Contact),
		templates:              make(map[string]*model.ScorecardTemplate),
		responses:              make(map[string]*model.ScorecardResponse),
		maxResponsesPerAccount: maxResponsesPerAccount,
	}
}

// SaveMergeResult replaces the imported dataset with a merge run's
// output. Accounts and contacts overwrite by id; estimates and jobsites
// are replaced wholesale since the exports are full snapshots.
func (s *CRMStore) SaveMergeResult(result *MergeResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range result.Accounts {
		s.accounts[account.ID] = account
	}
	for _, contact := range result.Contacts {
		s.contacts[contact.ID] = contact
	}
	s.estimates = result.Estimates
	s.jobsites = result.Jobsites

	slog.Info("merge result saved",
		"accounts", len(result.Accounts),
		"contacts", len(result.Contacts),
		"estimates", len(result.Estimates),
		"jobsites", len(result.Jobsites),
	)
}

// ListAccounts returns all accounts sorted by organization score
// descending, ties by name.
func (s *CRMStore) ListAccounts() []*model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].OrganizationScore != accounts[j].OrganizationScore {
			return accounts[i].OrganizationScore > accounts[j].OrganizationScore
		}
		return accounts[i].Name < accounts[j].Name
	})
	return accounts
}

// GetAccount returns an account by id, nil when absent.
func (s *CRMStore) GetAccount(id string) *model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accounts[id]
}

// UpdateAccountScore writes a new organization score onto an account.
func (s *CRMStore) UpdateAccountScore(accountID string, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return fmt.Errorf("account %s not found", accountID)
	}
	account.OrganizationScore = score
	return nil
}

// ListContacts returns contacts for an account, or all contacts when
// accountID is empty.
func (s *CRMStore) ListContacts(accountID string) []*model.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var contacts []*model.Contact
	for _, c := range s.contacts {
		if accountID == "" || c.AccountID == accountID {
			contacts = append(contacts, c)
		}
	}
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].LastName != contacts[j].LastName {
			return contacts[i].LastName < contacts[j].LastName
		}
		return contacts[i].FirstName < contacts[j].FirstName
	})
	return contacts
}

func (s *CRMStore) ListEstimates() []*model.Estimate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Estimate(nil), s.estimates...)
}

func (s *CRMStore) ListJobsites() []*model.Jobsite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Jobsite(nil), s.jobsites...)
}

// CreateTemplate stores a scorecard template. Marking a template
// primary demotes the previous primary.
func (s *CRMStore) CreateTemplate(template *model.ScorecardTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if template.IsPrimary {
		for _, t := range s.templates {
			t.IsPrimary = false
		}
	}
	s.templates[template.ID] = template
	slog.Info("scorecard template created", "template_id", template.ID, "name", template.Name, "primary", template.IsPrimary)
}

// PrimaryTemplate returns the current primary template, nil when none.
func (s *CRMStore) PrimaryTemplate() *model.ScorecardTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.templates {
		if t.IsPrimary {
			return t
		}
	}
	return nil
}

// GetTemplate returns a template by id, nil when absent.
func (s *CRMStore) GetTemplate(id string) *model.ScorecardTemplate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates[id]
}

// CreateScorecardResponse stores a new response.
func (s *CRMStore) CreateScorecardResponse(resp *model.ScorecardResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if resp.ID == "" {
		return fmt.Errorf("scorecard response requires an id")
	}
	if _, exists := s.responses[resp.ID]; exists {
		return fmt.Errorf("scorecard response %s already exists", resp.ID)
	}
	s.responses[resp.ID] = resp

	s.pruneResponsesLocked(resp.AccountID)
	return nil
}

// UpdateScorecardResponse replaces an existing response in place.
func (s *CRMStore) UpdateScorecardResponse(id string, resp *model.ScorecardResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.responses[id]; !ok {
		return fmt.Errorf("scorecard response %s not found", id)
	}
	resp.ID = id
	s.responses[id] = resp
	return nil
}

// FilterScorecardResponses returns responses for an account, optionally
// narrowed to one template, newest first.
func (s *CRMStore) FilterScorecardResponses(accountID, templateID string) []*model.ScorecardResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*model.ScorecardResponse
	for _, r := range s.responses {
		if r.AccountID != accountID {
			continue
		}
		if templateID != "" && r.TemplateID != templateID {
			continue
		}
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CompletedDate.After(result[j].CompletedDate)
	})
	return result
}

// PrimaryScorecard returns the account's primary response, nil when the
// account has not been scored.
func (s *CRMStore) PrimaryScorecard(accountID string) *model.ScorecardResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var newest *model.ScorecardResponse
	for _, r := range s.responses {
		if r.AccountID != accountID || !r.IsPrimary {
			continue
		}
		if newest == nil || r.CompletedDate.After(newest.CompletedDate) {
			newest = r
		}
	}
	return newest
}

// pruneResponsesLocked drops the oldest responses past the per-account
// cap. Must be called with the lock held.
func (s *CRMStore) pruneResponsesLocked(accountID string) {
	if s.maxResponsesPerAccount <= 0 {
		return
	}

	var forAccount []*model.ScorecardResponse
	for _, r := range s.responses {
		if r.AccountID == accountID {
			forAccount = append(forAccount, r)
		}
	}
	if len(forAccount) <= s.maxResponsesPerAccount {
		return
	}

	sort.Slice(forAccount, func(i, j int) bool {
		return forAccount[i].CompletedDate.Before(forAccount[j].CompletedDate)
	})
	for _, r := range forAccount[:len(forAccount)-s.maxResponsesPerAccount] {
		slog.Info("pruning old scorecard response", "response_id", r.ID, "account_id", accountID)
		delete(s.responses, r.ID)
	}
}

// Counts returns entity counts for the health endpoint.
func (s *CRMStore) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"accounts":  len(s.accounts),
		"contacts":  len(s.contacts),
		"estimates": len(s.estimates),
		"jobsites":  len(s.jobsites),
		"templates": len(s.templates),
		"responses": len(s.responses),
	}
}
