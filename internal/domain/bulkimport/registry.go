package bulkimport

// OrganizationProfile holds the category lists shipped for a known employer,
// plus deduction keywords specific to its payslip vocabulary.
type OrganizationProfile struct {
	EarningCategories   []string
	DeductionCategories []string
	DeductionKeywords   []string
}

// knownOrganizations maps employer names, as they appear on sheet tabs, to
// their shipped lists. Lookups are by exact name, the same equality rule used
// everywhere organizations are matched.
var knownOrganizations = map[string]OrganizationProfile{
	"TCS": {
		EarningCategories: []string{
			"Basic Salary", "HRA", "City Allowance", "Food Allowance",
			"Special Allowance", "Bonus",
		},
		DeductionCategories: []string{
			"Income Tax", "Provident Fund", "Professional Tax",
			"Health Insurance", "Labour Welfare Fund",
		},
		DeductionKeywords: []string{"tds", "nps"},
	},
	"Infosys": {
		EarningCategories: []string{
			"Basic Salary", "HRA", "Shift Allowance", "Special Allowance", "Bonus",
		},
		DeductionCategories: []string{
			"Income Tax", "Provident Fund", "Professional Tax", "Group Insurance",
		},
		DeductionKeywords: []string{"tds", "superannuation"},
	},
	"Wipro": {
		EarningCategories: []string{
			"Basic Salary", "HRA", "Variable Pay", "Special Allowance",
		},
		DeductionCategories: []string{
			"Income Tax", "Provident Fund", "Professional Tax", "Medical Insurance",
		},
		DeductionKeywords: []string{"tds", "nps"},
	},
}

func LookupOrganization(name string) (OrganizationProfile, bool) {
	profile, ok := knownOrganizations[name]
	return profile, ok
}
