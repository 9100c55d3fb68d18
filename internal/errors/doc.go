// Package errors provides structured, actionable error messages for the
// formvalidator tools.
//
// Every error carries a code, a category, a short message and a longer
// explanation. Configuration errors can point at the offending line of the
// configuration file and show the lines around it.
//
// # Error Categories
//
//   - config: configuration file errors (syntax, unknown rules, bad ports)
//   - selector: selectors that do not parse or match nothing
//   - transport: live WebSocket errors
//   - cli: command line errors
//
// # Usage
//
//	err := errors.New("E121").
//	    WithLocation("formvalidator.yaml", 5, 5).
//	    WithSuggestion(`Did you mean "required"?`)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E121: Unknown rule
//	//
//	//   formvalidator.yaml:5:5
//	//
//	//        3 │ messageSelector: .error-message
//	//        4 │ rules:
//	//   →    5 │   - rule: requird
//	//          │     ^
//	//        6 │     selector: "#username"
//	//
//	//   Hint: Did you mean "required"?
package errors
