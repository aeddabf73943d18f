package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

const contactsCSV = `Lead Name,Contact ID,First Name,Last Name,Email 1,City,State
Acme Property Group,lmn-1,John,Smith,john@acme.com,Calgary,AB
Widgets Inc,lmn-2,Bob,Brown,bob@widgets.com,Airdrie,AB
`

const leadsCSV = `First Name,Last Name,Email 1,Position
John,Smith,john@acme.com,Owner
`

const estimatesCSV = `Estimate ID,Contact ID,Contact Name,Project Name,Status,Total Price
e-1,lmn-1,John Smith,Winter Maintenance,Won,"$105,000.00"
`

const jobsitesCSV = `Jobsite ID,Contact ID,Contact Name,Jobsite Name
j-1,lmn-1,John Smith,Acme HQ
`

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for field, content := range files {
		part, err := writer.CreateFormFile(field, field+".csv")
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func TestImportLMN(t *testing.T) {
	handler := NewImportHandler(nil)

	router := gin.New()
	router.POST("/imports/lmn", handler.ImportLMN)

	body, contentType := multipartBody(t, map[string]string{
		"contacts_export": contactsCSV,
		"leads_list":      leadsCSV,
		"estimates":       estimatesCSV,
		"jobsites":        jobsitesCSV,
	})

	req := httptest.NewRequest("POST", "/imports/lmn", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var response struct {
		ImportID string `json:"import_id"`
		Stats    struct {
			TotalAccounts   int `json:"totalAccounts"`
			TotalContacts   int `json:"totalContacts"`
			MatchedContacts int `json:"matchedContacts"`
			MatchRate       int `json:"matchRate"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}

	if response.ImportID == "" {
		t.Error("Expected import_id in response")
	}
	if response.Stats.TotalAccounts != 2 {
		t.Errorf("Expected 2 accounts, got %d", response.Stats.TotalAccounts)
	}
	if response.Stats.TotalContacts != 2 {
		t.Errorf("Expected 2 contacts, got %d", response.Stats.TotalContacts)
	}
	if response.Stats.MatchedContacts != 1 {
		t.Errorf("Expected 1 matched contact, got %d", response.Stats.MatchedContacts)
	}
	if response.Stats.MatchRate != 50 {
		t.Errorf("Expected 50%% match rate, got %d", response.Stats.MatchRate)
	}
}

func TestImportLMNContactsOnly(t *testing.T) {
	handler := NewImportHandler(nil)

	router := gin.New()
	router.POST("/imports/lmn", handler.ImportLMN)

	body, contentType := multipartBody(t, map[string]string{
		"contacts_export": contactsCSV,
	})

	req := httptest.NewRequest("POST", "/imports/lmn", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 without optional files, got %d: %s", w.Code, w.Body.String())
	}
}

func TestImportLMNMissingContacts(t *testing.T) {
	handler := NewImportHandler(nil)

	router := gin.New()
	router.POST("/imports/lmn", handler.ImportLMN)

	body, contentType := multipartBody(t, map[string]string{
		"estimates": estimatesCSV,
	})

	req := httptest.NewRequest("POST", "/imports/lmn", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without contacts_export, got %d", w.Code)
	}
}

func TestImportLMNUnparseableFile(t *testing.T) {
	handler := NewImportHandler(nil)

	router := gin.New()
	router.POST("/imports/lmn", handler.ImportLMN)

	body, contentType := multipartBody(t, map[string]string{
		"contacts_export": "",
	})

	req := httptest.NewRequest("POST", "/imports/lmn", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty contacts export, got %d", w.Code)
	}
}

func TestDeleteArchiveEmptyObject(t *testing.T) {
	handler := NewImportHandler(nil)

	router := gin.New()
	router.DELETE("/archives/*object", handler.DeleteArchive)

	req := httptest.NewRequest("DELETE", "/archives/", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty object name, got %d", w.Code)
	}
}

func TestDeleteArchiveNoStorage(t *testing.T) {
	handler := NewImportHandler(nil)

	router := gin.New()
	router.DELETE("/archives/*object", handler.DeleteArchive)

	req := httptest.NewRequest("DELETE", "/archives/imports/imp-1/contacts.csv", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 without file storage, got %d", w.Code)
	}
}
