package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joshuadevelopsgames/LECRM-dev/model"
)

// stubScorecardStore is an in-memory ScorecardStore with injectable
// failures, used to exercise the batch scorer without the real store.
type stubScorecardStore struct {
	accounts  []*model.Account
	estimates []*model.Estimate
	jobsites  []*model.Jobsite
	responses []*model.ScorecardResponse

	scores map[string]int

	failScoreUpdateFor string
	created            int
	updated            int
}

func newStubStore() *stubScorecardStore {
	return &stubScorecardStore{scores: make(map[string]int)}
}

func (s *stubScorecardStore) ListAccounts() []*model.Account   { return s.accounts }
func (s *stubScorecardStore) ListEstimates() []*model.Estimate { return s.estimates }
func (s *stubScorecardStore) ListJobsites() []*model.Jobsite   { return s.jobsites }

func (s *stubScorecardStore) FilterScorecardResponses(accountID, templateID string) []*model.ScorecardResponse {
	var out []*model.ScorecardResponse
	for _, r := range s.responses {
		if r.AccountID == accountID && r.TemplateID == templateID {
			out = append(out, r)
		}
	}
	return out
}

func (s *stubScorecardStore) CreateScorecardResponse(resp *model.ScorecardResponse) error {
	s.created++
	s.responses = append(s.responses, resp)
	return nil
}

func (s *stubScorecardStore) UpdateScorecardResponse(id string, resp *model.ScorecardResponse) error {
	for i, r := range s.responses {
		if r.ID == id {
			s.updated++
			s.responses[i] = resp
			return nil
		}
	}
	return errors.New("response not found")
}

func (s *stubScorecardStore) UpdateAccountScore(accountID string, score int) error {
	if accountID == s.failScoreUpdateFor {
		return errors.New("injected failure")
	}
	s.scores[accountID] = score
	return nil
}

func batchTemplate() *model.ScorecardTemplate {
	return &model.ScorecardTemplate{
		ID:   "tpl-1",
		Name: "ICP Scorecard",
		Questions: []model.ScorecardQuestion{
			{QuestionText: "Located in service area?", Weight: 50, AnswerType: model.AnswerTypeYesNo},
			{QuestionText: "Has multiple properties?", Weight: 50, AnswerType: model.AnswerTypeYesNo},
		},
		TotalPossibleScore: 100,
		IsPrimary:          true,
	}
}

func TestAutoScoreAllAccounts(t *testing.T) {
	store := newStubStore()
	store.accounts = []*model.Account{
		{ID: "acc-1", Name: "Acme", City: "Calgary"},
		{ID: "acc-2", Name: "Widgets", City: "Toronto"},
	}
	store.jobsites = []*model.Jobsite{
		{ID: "j-1", AccountID: "acc-1", Name: "Site A"},
		{ID: "j-2", AccountID: "acc-1", Name: "Site B"},
	}

	result, err := AutoScoreAllAccounts(context.Background(), store, batchTemplate(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Scored != 2 || result.Failed != 0 {
		t.Fatalf("Expected 2 scored, 0 failed, got %d/%d", result.Scored, result.Failed)
	}

	if store.scores["acc-1"] != 100 {
		t.Errorf("Expected acc-1 score 100, got %d", store.scores["acc-1"])
	}
	if store.scores["acc-2"] != 0 {
		t.Errorf("Expected acc-2 score 0, got %d", store.scores["acc-2"])
	}
	if store.created != 2 || store.updated != 0 {
		t.Errorf("Expected 2 creates and 0 updates, got %d/%d", store.created, store.updated)
	}

	for _, resp := range store.responses {
		if resp.CompletedBy != "system-auto" {
			t.Errorf("Expected completed_by system-auto, got %q", resp.CompletedBy)
		}
		if resp.ScorecardType != model.ScorecardTypeAuto {
			t.Errorf("Expected auto scorecard type, got %q", resp.ScorecardType)
		}
		if !resp.IsPrimary {
			t.Error("Expected responses to be primary")
		}
	}
}

func TestAutoScoreAllAccountsUpsert(t *testing.T) {
	store := newStubStore()
	store.accounts = []*model.Account{{ID: "acc-1", Name: "Acme", City: "Calgary"}}
	store.responses = []*model.ScorecardResponse{
		{ID: "old-1", AccountID: "acc-1", TemplateID: "tpl-1", CompletedDate: time.Now().Add(-48 * time.Hour)},
		{ID: "old-2", AccountID: "acc-1", TemplateID: "tpl-1", CompletedDate: time.Now().Add(-1 * time.Hour)},
	}

	result, err := AutoScoreAllAccounts(context.Background(), store, batchTemplate(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Scored != 1 {
		t.Fatalf("Expected 1 scored, got %d", result.Scored)
	}
	if store.created != 0 || store.updated != 1 {
		t.Fatalf("Expected 0 creates and 1 update, got %d/%d", store.created, store.updated)
	}

	// The most recently completed response keeps its ID
	var replaced bool
	for _, r := range store.responses {
		if r.ID == "old-2" && r.ScorecardType == model.ScorecardTypeAuto {
			replaced = true
		}
	}
	if !replaced {
		t.Error("Expected newest response old-2 to be replaced in place")
	}
}

func TestAutoScoreAllAccountsFailureIsolation(t *testing.T) {
	store := newStubStore()
	store.accounts = []*model.Account{
		{ID: "acc-1", Name: "Acme", City: "Calgary"},
		{ID: "acc-2", Name: "Broken", City: "Calgary"},
		{ID: "acc-3", Name: "Widgets", City: "Calgary"},
	}
	store.failScoreUpdateFor = "acc-2"

	result, err := AutoScoreAllAccounts(context.Background(), store, batchTemplate(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Scored != 2 || result.Failed != 1 {
		t.Fatalf("Expected 2 scored, 1 failed, got %d/%d", result.Scored, result.Failed)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Broken") {
		t.Errorf("Expected one error naming the account, got %v", result.Errors)
	}
	if _, ok := store.scores["acc-3"]; !ok {
		t.Error("Expected scoring to continue past the failed account")
	}
}

func TestAutoScoreAllAccountsNilTemplate(t *testing.T) {
	store := newStubStore()
	store.accounts = []*model.Account{{ID: "acc-1", Name: "Acme"}}

	result, err := AutoScoreAllAccounts(context.Background(), store, nil, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Scored != 0 || result.Failed != 0 {
		t.Errorf("Expected no work without a template, got %+v", result)
	}
	if store.created != 0 {
		t.Errorf("Expected no responses created, got %d", store.created)
	}
}

func TestAutoScoreAllAccountsCancellation(t *testing.T) {
	store := newStubStore()
	for _, id := range []string{"acc-1", "acc-2", "acc-3"} {
		store.accounts = append(store.accounts, &model.Account{ID: id, Name: id, City: "Calgary"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	var progress []string
	onProgress := func(msg string) {
		progress = append(progress, msg)
		// Cancel after the first account starts scoring
		if strings.HasPrefix(msg, "Scoring account 1") {
			cancel()
		}
	}

	result, err := AutoScoreAllAccounts(ctx, store, batchTemplate(), onProgress)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if result.Scored != 1 {
		t.Errorf("Expected 1 account scored before cancellation, got %d", result.Scored)
	}
	if len(progress) == 0 {
		t.Error("Expected progress callbacks")
	}
}

func TestAutoScoreAllAccountsProgress(t *testing.T) {
	store := newStubStore()
	store.accounts = []*model.Account{
		{ID: "acc-1", Name: "Acme", City: "Calgary"},
		{ID: "acc-2", City: "Calgary"}, // nameless, label falls back to ID
	}

	var progress []string
	_, err := AutoScoreAllAccounts(context.Background(), store, batchTemplate(), func(msg string) {
		progress = append(progress, msg)
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{
		"Fetching accounts...",
		"Scoring account 1 of 2: Acme",
		"Scoring account 2 of 2: acc-2",
	}
	if len(progress) != len(want) {
		t.Fatalf("Expected %d progress messages, got %d: %v", len(want), len(progress), progress)
	}
	for i, msg := range want {
		if progress[i] != msg {
			t.Errorf("Progress %d: expected %q, got %q", i, msg, progress[i])
		}
	}
}
