package schema

// ContactID identifies the contact form schema.
const ContactID = "contact"

// Contact field names.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldService = "service"
	FieldMessage = "message"
)

// ServiceOptions is the fixed list of services a visitor can pick from, in
// display order.
var ServiceOptions = []string{
	"Website Development",
	"SEO & Google Listing",
	"Google Ads & PPC",
	"Mobile & Web App",
	"Automation & Chatbots",
	"Other",
}

// Contact returns the schema of the agency contact form. Each call returns a
// fresh copy, so callers may not affect one another.
func Contact() Schema {
	return NewBuilder(ContactID).
		Field(FieldName, KindShortText,
			MinLength(2, "Name must be at least 2 characters"),
			MaxLength(100, "Name is too long"),
		).Describe("Full Name", "Your name").
		Field(FieldEmail, KindEmail,
			Email("Please enter a valid email"),
			MaxLength(255, "Email is too long"),
		).Describe("Email", "your@email.com").
		Field(FieldPhone, KindPhone,
			MinLength(10, "Please enter a valid phone number"),
			MaxLength(15, "Phone number is too long"),
		).Describe("Phone", "+91 XXXXXXXXXX").
		Field(FieldService, KindChoice,
			NonEmpty("Please select a service"),
			OneOf(ServiceOptions, "Please select a service"),
		).Describe("Service Required", "Select a service").Options(ServiceOptions...).
		Field(FieldMessage, KindLongText,
			MinLength(10, "Message must be at least 10 characters"),
			MaxLength(1000, "Message is too long"),
		).Describe("Message", "Tell us about your project...").
		MustBuild()
}
