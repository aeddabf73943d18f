package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/joshuadevelopsgames/LECRM-dev/model"
	"github.com/joshuadevelopsgames/LECRM-dev/service"
)

func seedAccounts(t *testing.T) {
	t.Helper()
	service.GetCRMStore().SaveMergeResult(&service.MergeResult{
		Accounts: []*model.Account{
			{ID: "acct-test-1", Name: "Acme Property Group", OrganizationScore: 90},
			{ID: "acct-test-2", Name: "Widgets Inc", OrganizationScore: 40},
		},
		Contacts: []*model.Contact{
			{ID: "acct-test-c1", AccountID: "acct-test-1", FirstName: "John", LastName: "Smith"},
			{ID: "acct-test-c2", AccountID: "acct-test-1", FirstName: "Sue", LastName: "Jones"},
			{ID: "acct-test-c3", AccountID: "acct-test-2", FirstName: "Bob", LastName: "Brown"},
		},
	})
}

func TestAccountList(t *testing.T) {
	seedAccounts(t)
	handler := NewAccountHandler()

	router := gin.New()
	router.GET("/accounts", handler.List)

	req := httptest.NewRequest("GET", "/accounts", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Accounts []*model.Account `json:"accounts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	// Higher score must come before lower regardless of other seeded data
	posAcme, posWidgets := -1, -1
	for i, a := range response.Accounts {
		switch a.ID {
		case "acct-test-1":
			posAcme = i
		case "acct-test-2":
			posWidgets = i
		}
	}
	if posAcme == -1 || posWidgets == -1 {
		t.Fatal("Expected both seeded accounts in response")
	}
	if posAcme > posWidgets {
		t.Error("Expected higher-scored account listed first")
	}
}

func TestAccountGet(t *testing.T) {
	seedAccounts(t)
	handler := NewAccountHandler()

	router := gin.New()
	router.GET("/accounts/:id", handler.Get)

	req := httptest.NewRequest("GET", "/accounts/acct-test-1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Account  *model.Account   `json:"account"`
		Contacts []*model.Contact `json:"contacts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Account == nil || response.Account.Name != "Acme Property Group" {
		t.Errorf("Unexpected account: %+v", response.Account)
	}
	if len(response.Contacts) != 2 {
		t.Errorf("Expected 2 contacts, got %d", len(response.Contacts))
	}
}

func TestAccountGetNotFound(t *testing.T) {
	handler := NewAccountHandler()

	router := gin.New()
	router.GET("/accounts/:id", handler.Get)

	req := httptest.NewRequest("GET", "/accounts/no-such-account", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestAccountListContacts(t *testing.T) {
	seedAccounts(t)
	handler := NewAccountHandler()

	router := gin.New()
	router.GET("/contacts", handler.ListContacts)

	req := httptest.NewRequest("GET", "/contacts?account_id=acct-test-2", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var response struct {
		Contacts []*model.Contact `json:"contacts"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(response.Contacts) != 1 || response.Contacts[0].FirstName != "Bob" {
		t.Errorf("Expected Bob only, got %+v", response.Contacts)
	}
}
