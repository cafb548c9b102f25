package rules

// Realistic value pools for the deterministic generator.

var emailDomains = []string{
	"example.com", "test.org", "demo.net", "sample.io",
	"gmail.com", "yahoo.com", "outlook.com", "hotmail.com",
}

var firstNames = []string{
	"James", "Mary", "John", "Patricia", "Robert", "Jennifer",
	"Michael", "Linda", "David", "Elizabeth", "William", "Barbara",
	"Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah",
	"Charles", "Karen", "Christopher", "Nancy", "Daniel", "Lisa",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
	"Miller", "Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez",
	"Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore",
}

var cities = []string{
	"New York", "Los Angeles", "Chicago", "Houston", "Phoenix",
	"Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose",
	"Austin", "Jacksonville", "Fort Worth", "Columbus", "Charlotte",
}

var states = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
}

var companies = []string{"Tech Corp", "Data Systems", "Web Solutions", "Digital Inc"}

var streetNames = []string{"Main", "Oak", "Park", "First"}

var validPhoneFormats = []string{
	"(555) 123-4567",
	"555-123-4567",
	"555.123.4567",
	"+1 555 123 4567",
	"5551234567",
}

var invalidPhones = []string{
	"123",          // too short
	"abc-def-ghij", // letters
	"555-123-456",  // wrong format
	"(555) 123-456",
}

var invalidEmails = []string{
	"invalid.email",        // missing @
	"@domain.com",          // missing local part
	"user@",                // missing domain
	"user@domain",          // missing TLD
	"user name@domain.com", // space in local part
}

var edgeEmails = []string{
	"a@b.co", // minimal valid
	"very.long.email.address.that.is.still.valid@extremely.long.domain.example.com",
	"user+tag@domain.com",
	"user.123@domain-with-hyphens.org",
}

var fileExtensions = []string{".jpg", ".png", ".pdf", ".txt", ".doc"}

// unicodeNames exercise non-ASCII handling in name-like fields.
var unicodeNames = []string{
	"José-María O'Brien",
	"Łukasz Żółć",
	"千葉 真一",
	"Αλέξανδρος",
}
