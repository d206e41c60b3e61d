package registry

import "github.com/rebeliceyang/lazygrid/internal/models"

// DefaultTables is the built-in filter configuration used when no registry file is configured
var DefaultTables = map[string][]models.FilterDefinition{
	"crm.contacts": {
		{ColumnKey: "name", Label: "Name", FilterType: models.FilterTypeString},
		{ColumnKey: "email", Label: "Email", FilterType: models.FilterTypeString},
		{ColumnKey: "companyId", Label: "Company", FilterType: models.FilterTypeAutocomplete, EntityType: "company"},
		{ColumnKey: "ownerId", Label: "Owner", FilterType: models.FilterTypeSelect, EntityType: "user"},
		{ColumnKey: "status", Label: "Status", FilterType: models.FilterTypeSelect, Options: []models.Option{
			{Value: "lead", Label: "Lead"},
			{Value: "customer", Label: "Customer"},
			{Value: "churned", Label: "Churned"},
		}},
		{ColumnKey: "tags", Label: "Tags", FilterType: models.FilterTypeMultiSelect,
			OptionsEndpoint: "/api/crm/tags", ItemsPath: "data", ValueField: "slug", LabelField: "title"},
		{ColumnKey: "isActive", Label: "Active", FilterType: models.FilterTypeBoolean},
		{ColumnKey: "score", Label: "Score", FilterType: models.FilterTypeNumber},
		{ColumnKey: "createdAt", Label: "Created", FilterType: models.FilterTypeDateRange},
		{ColumnKey: "lastContactedAt", Label: "Last contacted", FilterType: models.FilterTypeDate},
	},
	"crm.companies": {
		{ColumnKey: "name", Label: "Name", FilterType: models.FilterTypeString},
		{ColumnKey: "industry", Label: "Industry", FilterType: models.FilterTypeMultiSelect, Options: []models.Option{
			{Value: "software", Label: "Software"},
			{Value: "retail", Label: "Retail"},
			{Value: "finance", Label: "Finance"},
		}},
		{ColumnKey: "employees", Label: "Employees", FilterType: models.FilterTypeNumber},
		{ColumnKey: "ownerId", Label: "Owner", FilterType: models.FilterTypeAutocomplete, EntityType: "user"},
		{ColumnKey: "createdAt", Label: "Created", FilterType: models.FilterTypeDateRange},
	},
	"support.tickets": {
		{ColumnKey: "subject", Label: "Subject", FilterType: models.FilterTypeString},
		{ColumnKey: "status", Label: "Status", FilterType: models.FilterTypeSelect, Options: []models.Option{
			{Value: "open", Label: "Open"},
			{Value: "pending", Label: "Pending"},
			{Value: "closed", Label: "Closed"},
		}},
		{ColumnKey: "priority", Label: "Priority", FilterType: models.FilterTypeMultiSelect, Options: []models.Option{
			{Value: "low", Label: "Low"},
			{Value: "normal", Label: "Normal"},
			{Value: "high", Label: "High"},
			{Value: "urgent", Label: "Urgent"},
		}},
		{ColumnKey: "assigneeId", Label: "Assignee", FilterType: models.FilterTypeAutocomplete, EntityType: "user"},
		{ColumnKey: "contactId", Label: "Contact", FilterType: models.FilterTypeAutocomplete, EntityType: "contact"},
		{ColumnKey: "escalated", Label: "Escalated", FilterType: models.FilterTypeBoolean},
		{ColumnKey: "dueDate", Label: "Due", FilterType: models.FilterTypeDate},
		{ColumnKey: "openedAt", Label: "Opened", FilterType: models.FilterTypeDateRange},
	},
}

// DefaultEntities is the built-in entity reference configuration
var DefaultEntities = map[string]models.EntityDefinition{
	"company": {
		ResolveEndpoint: "/api/crm/companies/:id",
		SearchEndpoint:  "/api/crm/companies?search=:query",
		LabelField:      "name",
		ValueField:      "id",
		ItemsPath:       "data.items",
		DetailPath:      "/crm/companies/:id",
		RowLabelFields:  map[string]string{"companyId": "companyName"},
	},
	"contact": {
		ResolveEndpoint: "/api/crm/contacts/:id",
		SearchEndpoint:  "/api/crm/contacts?search=:query",
		LabelField:      "fullName",
		ValueField:      "id",
		ItemsPath:       "data.items",
		DetailPath:      "/crm/contacts/:id",
	},
	"user": {
		ResolveEndpoint: "/api/users/:id",
		SearchEndpoint:  "/api/users",
		LabelField:      "profile.displayName",
		ValueField:      "id",
		RowLabelFields:  map[string]string{"ownerId": "ownerName", "assigneeId": "assigneeName"},
	},
}

// Default returns a registry built from DefaultTables and DefaultEntities
func Default() *Registry {
	r, err := New(DefaultTables, DefaultEntities)
	if err != nil {
		panic("registry: invalid built-in definitions: " + err.Error())
	}
	return r
}
