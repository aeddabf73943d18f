package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/joshuadevelopsgames/LECRM-dev/model"
	"github.com/joshuadevelopsgames/LECRM-dev/pkg/logger"
)

// ScorecardStore is the slice of the entity store the batch scorer
// needs. The concrete CRM store implements it.
type ScorecardStore interface {
	ListAccounts() []*model.Account
	ListEstimates() []*model.Estimate
	ListJobsites() []*model.Jobsite
	FilterScorecardResponses(accountID, templateID string) []*model.ScorecardResponse
	CreateScorecardResponse(resp *model.ScorecardResponse) error
	UpdateScorecardResponse(id string, resp *model.ScorecardResponse) error
	UpdateAccountScore(accountID string, score int) error
}

// BatchScoreResult reports a batch auto-scoring run.
type BatchScoreResult struct {
	Scored int      `json:"scored"`
	Failed int      `json:"failed"`
	Errors []string `json:"errors"`
}

// ProgressFunc receives human-readable progress updates during a batch run.
type ProgressFunc func(msg string)

// AutoScoreAllAccounts scores every account against the primary template
// and upserts each account's primary scorecard response. Accounts are
// processed strictly in sequence so store writes for different accounts
// never overlap; a failure on one account is recorded and the run
// continues with the next. The context is checked between accounts, so
// cancellation takes effect at the next iteration boundary.
func AutoScoreAllAccounts(ctx context.Context, store ScorecardStore, template *model.ScorecardTemplate, onProgress ProgressFunc) (*BatchScoreResult, error) {
	result := &BatchScoreResult{Errors: []string{}}

	if template == nil || len(template.Questions) == 0 {
		slog.Warn("no primary template provided or template has no questions")
		return result, nil
	}

	if onProgress != nil {
		onProgress("Fetching accounts...")
	}
	accounts := store.ListAccounts()
	estimates := store.ListEstimates()
	jobsites := store.ListJobsites()

	slog.Info("auto-scoring accounts", "count", len(accounts), "template", template.Name)

	for i, account := range accounts {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if onProgress != nil {
			onProgress(fmt.Sprintf("Scoring account %d of %d: %s", i+1, len(accounts), accountLabel(account)))
		}

		if err := scoreOneAccount(account, estimates, jobsites, template, store); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to score account %s: %v", accountLabel(account), err))
			actx := context.WithValue(ctx, logger.AccountIDKey, account.ID)
			logger.Error(actx, "account scoring failed", "error", err)
			continue
		}
		result.Scored++
	}

	slog.Info("auto-scoring complete", "scored", result.Scored, "failed", result.Failed)
	return result, nil
}

// scoreOneAccount scores a single account and upserts its primary
// scorecard response plus the account's organization score.
func scoreOneAccount(account *model.Account, estimates []*model.Estimate, jobsites []*model.Jobsite, template *model.ScorecardTemplate, store ScorecardStore) error {
	var accountEstimates []*model.Estimate
	for _, est := range estimates {
		if est.AccountID == account.ID {
			accountEstimates = append(accountEstimates, est)
		}
	}
	var accountJobsites []*model.Jobsite
	for _, js := range jobsites {
		if js.AccountID == account.ID {
			accountJobsites = append(accountJobsites, js)
		}
	}

	scoreData := AutoScoreAccount(account, accountEstimates, accountJobsites, template)
	if scoreData == nil {
		return fmt.Errorf("no score data generated")
	}

	now := time.Now()
	response := &model.ScorecardResponse{
		ID:              uuid.New().String(),
		AccountID:       account.ID,
		TemplateID:      template.ID,
		TemplateName:    template.Name,
		Responses:       scoreData.Responses,
		SectionScores:   scoreData.SectionScores,
		TotalScore:      scoreData.TotalScore,
		NormalizedScore: scoreData.NormalizedScore,
		IsPass:          scoreData.IsPass,
		ScorecardDate:   now.Format("2006-01-02"),
		CompletedBy:     "system-auto",
		CompletedDate:   now,
		ScorecardType:   model.ScorecardTypeAuto,
		IsPrimary:       true,
	}

	existing := store.FilterScorecardResponses(account.ID, template.ID)
	if len(existing) > 0 {
		// Replace the most recently completed response
		sort.Slice(existing, func(i, j int) bool {
			return existing[i].CompletedDate.After(existing[j].CompletedDate)
		})
		response.ID = existing[0].ID
		if err := store.UpdateScorecardResponse(existing[0].ID, response); err != nil {
			return fmt.Errorf("update scorecard response: %w", err)
		}
	} else {
		if err := store.CreateScorecardResponse(response); err != nil {
			return fmt.Errorf("create scorecard response: %w", err)
		}
	}

	if err := store.UpdateAccountScore(account.ID, scoreData.NormalizedScore); err != nil {
		return fmt.Errorf("update account score: %w", err)
	}

	return nil
}

func accountLabel(account *model.Account) string {
	if account.Name != "" {
		return account.Name
	}
	return account.ID
}
