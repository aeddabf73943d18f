package model

// Account represents an organization in the CRM. AnnualRevenue and
// OrganizationScore are computed by the merge engine each import run;
// nothing else writes them.
type Account struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	LMNCRMID    string   `json:"lmn_crm_id,omitempty"`
	AccountType string   `json:"account_type,omitempty"`
	Address1    string   `json:"address_1,omitempty"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	PostalCode  string   `json:"postal_code,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Archived    bool     `json:"archived,omitempty"`

	AnnualRevenue     *float64 `json:"annual_revenue,omitempty"`
	OrganizationScore int      `json:"organization_score"`
}

// Contact represents a person attached to an account. The merge engine
// fills Position through Matched from the leads-list supplement.
type Contact struct {
	ID           string `json:"id"`
	AccountID    string `json:"account_id"`
	LMNContactID string `json:"lmn_contact_id,omitempty"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email,omitempty"`
	Email1       string `json:"email_1,omitempty"`
	Email2       string `json:"email_2,omitempty"`
	Phone1       string `json:"phone_1,omitempty"`
	Phone2       string `json:"phone_2,omitempty"`
	Notes        string `json:"notes,omitempty"`

	Position       string `json:"position,omitempty"`
	Title          string `json:"title,omitempty"`
	Role           string `json:"role,omitempty"`
	DoNotEmail     bool   `json:"do_not_email"`
	DoNotMail      bool   `json:"do_not_mail"`
	DoNotCall      bool   `json:"do_not_call"`
	ReferralSource string `json:"referral_source,omitempty"`
	DataSource     string `json:"data_source,omitempty"`
	Matched        bool   `json:"matched"`
}

// Lead is a supplemental row from the LMN leads-list export. It carries
// the fields the contacts export lacks.
type Lead struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email1          string `json:"email_1,omitempty"`
	Position        string `json:"position,omitempty"`
	DoNotEmail      bool   `json:"do_not_email"`
	DoNotMail       bool   `json:"do_not_mail"`
	DoNotCall       bool   `json:"do_not_call"`
	ReferralSource  string `json:"referral_source,omitempty"`
	NotesSupplement string `json:"notes_supplement,omitempty"`
}

// Estimate is a row from the LMN estimates export. AccountID is empty
// until the merge engine resolves which account the estimate belongs to.
type Estimate struct {
	ID                string  `json:"id,omitempty"`
	AccountID         string  `json:"account_id,omitempty"`
	LMNContactID      string  `json:"lmn_contact_id,omitempty"`
	ContactName       string  `json:"contact_name,omitempty"`
	ProjectName       string  `json:"project_name,omitempty"`
	Status            string  `json:"status"`
	TotalPrice        float64 `json:"total_price"`
	TotalPriceWithTax float64 `json:"total_price_with_tax"`
	CRMTags           string  `json:"crm_tags,omitempty"`
}

// Jobsite is a row from the LMN jobsite export.
type Jobsite struct {
	ID           string `json:"id,omitempty"`
	AccountID    string `json:"account_id,omitempty"`
	LMNContactID string `json:"lmn_contact_id,omitempty"`
	ContactName  string `json:"contact_name,omitempty"`
	Name         string `json:"name,omitempty"`
}

// Estimate status constants
const (
	EstimateStatusWon  = "won"
	EstimateStatusLost = "lost"
)

// Contact data_source constants
const (
	DataSourceMerged             = "merged"
	DataSourceContactsExportOnly = "contacts_export_only"
)

// Contact role constants
const (
	RoleDecisionMaker = "decision_maker"
	RoleInfluencer    = "influencer"
	RoleUser          = "user"
)
