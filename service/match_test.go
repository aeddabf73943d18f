package service

import (
	"testing"

	"github.com/joshuadevelopsgames/LECRM-dev/model"
)

func TestBuildMatchKey(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		last     string
		email    string
		expected string
	}{
		{"all fields", "John", "Smith", "john@example.com", "john|smith|john@example.com"},
		{"normalizes case and whitespace", " John ", "SMITH", " John@Example.COM ", "john|smith|john@example.com"},
		{"missing last name", "John", "", "john@example.com", "john|john@example.com"},
		{"missing email", "John", "Smith", "", "john|smith"},
		{"first name only", "John", "", "", "john"},
		{"all empty", "", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := BuildMatchKey(tt.first, tt.last, tt.email)
			if key != tt.expected {
				t.Errorf("Expected key %q, got %q", tt.expected, key)
			}
		})
	}
}

func TestSupplementalIndexResolve(t *testing.T) {
	leads := []*model.Lead{
		{FirstName: "John", LastName: "Smith", Email1: "john@acme.com", Position: "Owner"},
		{FirstName: "Jane", LastName: "Doe", Email1: "jane@widgets.ca", Position: "Manager"},
	}
	idx := NewSupplementalIndex(leads)

	// Composite key match
	lead := idx.Resolve(&model.Contact{FirstName: "John", LastName: "Smith", Email1: "john@acme.com"})
	if lead == nil || lead.Position != "Owner" {
		t.Fatalf("Expected composite key match to Owner, got %+v", lead)
	}

	// Email fallback: names differ but email matches
	lead = idx.Resolve(&model.Contact{FirstName: "Janet", LastName: "Doe", Email1: "JANE@WIDGETS.CA"})
	if lead == nil || lead.Position != "Manager" {
		t.Fatalf("Expected email fallback match to Manager, got %+v", lead)
	}

	// Generic email field fallback
	lead = idx.Resolve(&model.Contact{FirstName: "Janet", Email: "jane@widgets.ca"})
	if lead == nil || lead.Position != "Manager" {
		t.Fatalf("Expected generic email fallback, got %+v", lead)
	}

	// No match
	if idx.Resolve(&model.Contact{FirstName: "Bob", LastName: "Brown", Email1: "bob@other.com"}) != nil {
		t.Error("Expected no match for unknown contact")
	}

	// Empty contact never matches anything
	if idx.Resolve(&model.Contact{}) != nil {
		t.Error("Expected no match for empty contact")
	}
}

func TestSupplementalIndexKeySymmetry(t *testing.T) {
	// A contact matches a lead iff their normalized keys are equal
	lead := &model.Lead{FirstName: "Ann", LastName: "Lee", Email1: "ann@lee.io"}
	idx := NewSupplementalIndex([]*model.Lead{lead})

	contact := &model.Contact{FirstName: "ANN", LastName: " lee ", Email1: "Ann@Lee.IO"}
	if BuildMatchKey(contact.FirstName, contact.LastName, contact.Email1) != BuildMatchKey(lead.FirstName, lead.LastName, lead.Email1) {
		t.Fatal("Expected normalized keys to be equal")
	}
	if idx.Resolve(contact) != lead {
		t.Error("Expected contact with equal key to resolve")
	}

	// Different key and different email: no match
	other := &model.Contact{FirstName: "Ann", LastName: "Leeson", Email1: "ann@leeson.io"}
	if idx.Resolve(other) != nil {
		t.Error("Expected no match for different key")
	}
}
