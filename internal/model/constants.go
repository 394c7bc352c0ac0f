package model

// SubjectSeed pairs a JAMB subject code with its display name.
type SubjectSeed struct {
	Code string
	Name string
}

// JAMBSubjects is the official JAMB subject list, seeded into an empty
// database at migration time.
var JAMBSubjects = []SubjectSeed{
	{Code: "ENG", Name: "English Language"},
	{Code: "MTH", Name: "Mathematics"},
	{Code: "PHY", Name: "Physics"},
	{Code: "CHM", Name: "Chemistry"},
	{Code: "BIO", Name: "Biology"},
	{Code: "ECO", Name: "Economics"},
	{Code: "GOV", Name: "Government"},
	{Code: "LIT", Name: "Literature-in-English"},
	{Code: "CRS", Name: "Christian Religious Studies"},
	{Code: "IRS", Name: "Islamic Religious Studies"},
	{Code: "COM", Name: "Commerce"},
	{Code: "GEO", Name: "Geography"},
	{Code: "ICT", Name: "Information and Communication Technology"},
	{Code: "FMT", Name: "Further Mathematics"},
	{Code: "ACC", Name: "Accounting"},
	{Code: "AGR", Name: "Agricultural Science"},
	{Code: "HAU", Name: "Hausa"},
	{Code: "YOR", Name: "Yoruba"},
	{Code: "IGB", Name: "Igbo"},
}

// NigerianStates is used to validate school records.
var NigerianStates = []string{
	"Abia", "Adamawa", "Akwa Ibom", "Anambra", "Bauchi", "Bayelsa", "Benue",
	"Borno", "Cross River", "Delta", "Ebonyi", "Edo", "Ekiti", "Enugu",
	"Gombe", "Imo", "Jigawa", "Kaduna", "Kano", "Katsina", "Kebbi", "Kogi",
	"Kwara", "Lagos", "Nasarawa", "Niger", "Ogun", "Ondo", "Osun", "Oyo",
	"Plateau", "Rivers", "Sokoto", "Taraba", "Yobe", "Zamfara", "FCT",
}

// ValidState reports whether s is a recognized Nigerian state.
func ValidState(s string) bool {
	for _, st := range NigerianStates {
		if st == s {
			return true
		}
	}
	return false
}
