package categories

import "github.com/cleared-dev/spendsort/internal/model"

// Defaults returns the category set seeded into a new project, in the order
// keyword rules are tried.
func Defaults() []model.Category {
	return []model.Category{
		{ID: "mortgage", Name: "Mortgage", Keywords: []string{"mortgage", "home loan"}, Group: "Housing", IsDefault: true},
		{ID: "hoa", Name: "HOA", Keywords: []string{"hoa", "homeowners", "association"}, Group: "Housing", IsDefault: true},
		{ID: "city_gas", Name: "City Gas", Keywords: []string{"city gas", "gas utility", "natural gas"}, Group: "Utilities", IsDefault: true},
		{ID: "fpl", Name: "FPL", Keywords: []string{"fpl", "florida power", "electric"}, Group: "Utilities", IsDefault: true},
		{ID: "internet", Name: "Internet", Keywords: []string{"internet", "wifi", "broadband", "comcast", "xfinity"}, Group: "Utilities", IsDefault: true},
		{ID: "phone", Name: "Phone", Keywords: []string{"phone", "mobile", "cell", "verizon", "att", "t-mobile"}, Group: "Utilities", IsDefault: true},
		{ID: "toll", Name: "Toll", Keywords: []string{"toll", "sunpass", "ezpass", "turnpike"}, Group: "Transportation", IsDefault: true},
		{ID: "gas_station", Name: "Gas Station", Keywords: []string{"gas station", "shell", "bp", "exxon", "chevron", "fuel"}, Group: "Transportation", IsDefault: true},
		{ID: "student_loan", Name: "Student Loan", Keywords: []string{"student loan", "education", "navient", "sallie mae"}, Group: "Education", IsDefault: true},
		{ID: "car_insurance", Name: "Car Insurance", Keywords: []string{"car insurance", "auto insurance", "geico", "state farm", "progressive"}, Group: "Insurance", IsDefault: true},
		{ID: "credit_card_jenny", Name: "Credit Card Jenny", Keywords: []string{"jenny", "credit card jenny"}, Group: "Credit Cards", IsDefault: true},
		{ID: "credit_card_ivan", Name: "Credit Card Ivan", Keywords: []string{"ivan", "credit card ivan"}, Group: "Credit Cards", IsDefault: true},
		{ID: "childcare", Name: "ChildCare", Keywords: []string{"childcare", "daycare", "babysitter", "nanny"}, Group: "Family", IsDefault: true},
	}
}

// DefaultRecipients returns the transfer recipient mappings seeded into a new
// project.
func DefaultRecipients() map[string]string {
	return map[string]string{
		"Doris":          "Phone",
		"Yamilka Maikel": "ChildCare",
	}
}
