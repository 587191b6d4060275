package wizard

import (
	"fmt"

	"hvac_quote_backend/platform/validator"
)

// Result is the outcome of validating one step. Errors maps a form field to
// a message for the user.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

type addressFields struct {
	Address string `json:"address" validate:"required,max=500"`
}

type contactFields struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"required,usphone"`
}

type homeDetailsFields struct {
	HasAttic       *bool  `json:"hasAttic" validate:"required"`
	BasementType   string `json:"basementType" validate:"required,oneof=full partial crawlspace slab none"`
	HasDuctwork    string `json:"hasDuctwork" validate:"required,oneof=yes no not-sure"`
	NumberOfFloors *int   `json:"numberOfFloors" validate:"required,min=1,max=10"`
	Corrections    string `json:"corrections" validate:"max=2000"`
}

type qualificationFields struct {
	OwnershipStatus      string `json:"ownershipStatus" validate:"required,oneof=own rent"`
	CurrentHeating       string `json:"currentHeating" validate:"required,oneof=oil gas propane electric other"`
	InstallationTimeline string `json:"installationTimeline" validate:"required,oneof=asap 1-3-months 3-6-months exploring"`
}

type utilitiesFields struct {
	ElectricityProvider string `json:"electricityProvider" validate:"required,max=200"`
	GasProvider         string `json:"gasProvider" validate:"max=200"`
}

var fieldLabels = map[string]string{
	"address":             "Address",
	"firstName":           "First name",
	"lastName":            "Last name",
	"email":               "Email",
	"phone":               "Phone number",
	"electricityProvider": "Electricity provider",
	"gasProvider":         "Gas provider",
	"corrections":         "Corrections",
}

var stepValidator = validator.New()

const msgMalformedLeadID = "We couldn't read your request id. Please start over from the contact step."

// ValidateStep checks the fields the step owns. It has no side effects.
func ValidateStep(step Step, form Form) Result {
	form = form.trimmed()

	if step.Valid() && step != StepQuote {
		if _, ok, err := form.leadID(); ok && err != nil {
			return invalid("leadId", msgMalformedLeadID)
		}
	}

	var fields any
	switch step {
	case StepAddress:
		fields = addressFields{Address: form.Address}
	case StepContact:
		fields = contactFields{FirstName: form.FirstName, LastName: form.LastName, Email: form.Email, Phone: form.Phone}
	case StepHomeDetails:
		fields = homeDetailsFields{
			HasAttic:       form.HasAttic,
			BasementType:   form.BasementType,
			HasDuctwork:    form.HasDuctwork,
			NumberOfFloors: form.NumberOfFloors,
			Corrections:    form.Corrections,
		}
	case StepQualification:
		fields = qualificationFields{
			OwnershipStatus:      form.OwnershipStatus,
			CurrentHeating:       form.CurrentHeating,
			InstallationTimeline: form.InstallationTimeline,
		}
	case StepUtilities:
		fields = utilitiesFields{ElectricityProvider: form.ElectricityProvider, GasProvider: form.GasProvider}
	case StepOverview:
		return validateOverview(form)
	case StepQuote:
		return invalid("step", "Your quote is ready. There is no next step.")
	default:
		return invalid("step", "Unknown step")
	}

	err := stepValidator.Struct(fields)
	if err == nil {
		return Result{Valid: true}
	}

	errs := make(map[string]string)
	for _, fe := range validator.FieldErrors(err) {
		if _, seen := errs[fe.Field]; seen {
			continue
		}
		errs[fe.Field] = message(fe)
	}
	return Result{Valid: false, Errors: errs}
}

func validateOverview(form Form) Result {
	_, ok, err := form.leadID()
	if !ok || err != nil {
		return invalid("leadId", "We lost track of your request. Please go back to the contact step.")
	}
	return Result{Valid: true}
}

func invalid(field, msg string) Result {
	return Result{Valid: false, Errors: map[string]string{field: msg}}
}

func message(fe validator.FieldError) string {
	switch fe.Field {
	case "hasAttic", "basementType", "hasDuctwork", "ownershipStatus", "currentHeating", "installationTimeline":
		return "Please select an option"
	case "numberOfFloors":
		if fe.Tag == "required" {
			return "Please enter the number of floors"
		}
		return "Number of floors must be between 1 and 10"
	}

	label := fieldLabels[fe.Field]
	if label == "" {
		label = fe.Field
	}

	switch fe.Tag {
	case "required":
		return label + " is required"
	case "email":
		return "Please enter a valid email address"
	case "usphone":
		return "Please enter a valid US phone number"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param)
	default:
		return label + " is invalid"
	}
}
