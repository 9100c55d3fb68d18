package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Selector Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategorySelector,
		Message:  "Invalid selector",
		Detail:   "The selector could not be parsed. Selectors use CSS syntax, e.g. #email, .form-group or input[name=\"gender\"].",
	},
	"E101": {
		Category: CategorySelector,
		Message:  "Form not found",
		Detail:   "No element of the page matches the form selector, so no rule can be bound.",
	},
	"E102": {
		Category: CategorySelector,
		Message:  "Field not found",
		Detail:   "No element of the form matches the field selector.",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be parsed as JSON or YAML.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Unknown rule",
		Detail:   "The rule name is not one of required, email, minLength, maxLength, confirmed or pattern.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The server port must be between 1 and 65535.",
	},
	"E123": {
		Category: CategoryConfig,
		Message:  "Missing selector",
		Detail:   "The form, group and message selectors and every rule selector must be set.",
	},
	"E124": {
		Category: CategoryConfig,
		Message:  "Invalid rule parameter",
		Detail:   "A rule parameter is missing or out of range.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Invalid flag value",
		Detail:   "A command line flag has a malformed value.",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "File not found",
		Detail:   "The configuration or page file does not exist.",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Validation failed",
		Detail:   "At least one field failed its rules, so the form was not submitted.",
	},
	"E143": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The live server stopped with an error.",
	},

	// ============================================
	// Transport Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryTransport,
		Message:  "WebSocket upgrade failed",
		Detail:   "The HTTP connection could not be upgraded to a WebSocket.",
	},
	"E161": {
		Category: CategoryTransport,
		Message:  "Malformed client message",
		Detail:   "A message from the browser could not be decoded.",
	},
	"E162": {
		Category: CategoryTransport,
		Message:  "Unknown element",
		Detail:   "The browser referenced an element id the session does not know.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
