package validator

// Observer receives validation outcomes. Implementations must not mutate
// the document.
type Observer interface {
	// FieldValidated is called after every Validate with the rule selector
	// and the verdict.
	FieldValidated(selector string, ok bool)

	// SubmitFinished is called once per submit attempt.
	SubmitFinished(res Result)
}

type nopObserver struct{}

func (nopObserver) FieldValidated(string, bool) {}
func (nopObserver) SubmitFinished(Result)       {}
