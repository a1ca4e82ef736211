package university

// Country is a study destination offered as a quick pick.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var popularCountries = []Country{
	{Code: "US", Name: "United States"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "CA", Name: "Canada"},
	{Code: "AU", Name: "Australia"},
	{Code: "DE", Name: "Germany"},
	{Code: "FR", Name: "France"},
	{Code: "NL", Name: "Netherlands"},
	{Code: "SE", Name: "Sweden"},
	{Code: "CH", Name: "Switzerland"},
	{Code: "SG", Name: "Singapore"},
	{Code: "JP", Name: "Japan"},
	{Code: "KR", Name: "South Korea"},
	{Code: "NZ", Name: "New Zealand"},
	{Code: "IE", Name: "Ireland"},
	{Code: "IN", Name: "India"},
}

// PopularCountries returns a copy of the fixed destination list.
func PopularCountries() []Country {
	return append([]Country(nil), popularCountries...)
}
