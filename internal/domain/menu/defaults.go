package menu

// DefaultRoute is the always-open home tab
const DefaultRoute = "/app/dashboard"

var defaultItems = []Item{
	{Key: "dashboard", Label: "Dashboard", Icon: "dashboard", Route: DefaultRoute},
	{
		Key:   "contracts",
		Label: "Contracts",
		Icon:  "description",
		Children: []Item{
			{Key: "contracts-list", Label: "All contracts", Icon: "list", Route: "/app/contracts"},
			{Key: "contracts-new", Label: "New contract", Icon: "note_add", Route: "/app/contracts/new"},
			{Key: "contracts-renewals", Label: "Renewals", Icon: "autorenew", Route: "/app/contracts/renewals"},
		},
	},
	{
		Key:   "clients",
		Label: "Clients",
		Icon:  "groups",
		Children: []Item{
			{Key: "clients-list", Label: "All clients", Icon: "list", Route: "/app/clients"},
			{Key: "clients-new", Label: "New client", Icon: "person_add", Route: "/app/clients/new"},
		},
	},
	{
		Key:   "public-info",
		Label: "Public information",
		Icon:  "public",
		Children: []Item{
			{Key: "public-info-company", Label: "Company profile", Icon: "business", Route: "/app/public-info/company"},
			{Key: "public-info-documents", Label: "Published documents", Icon: "folder_shared", Route: "/app/public-info/documents"},
		},
	},
	{Key: "reports", Label: "Reports", Icon: "bar_chart", Route: "/app/reports"},
	{Key: "settings", Label: "Settings", Icon: "settings", Route: "/app/settings"},
}

// Default returns the compiled-in console menu
func Default() *Catalog {
	return MustCatalog(defaultItems)
}
