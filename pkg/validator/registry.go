package validator

// registry maps selectors to their tests in declaration order.
// It is filled while the validator is set up and only read afterwards.
type registry struct {
	order []string
	tests map[string][]TestFunc
}

func newRegistry() *registry {
	return &registry{tests: make(map[string][]TestFunc)}
}

// add appends test under selector.
func (r *registry) add(selector string, test TestFunc) {
	if _, ok := r.tests[selector]; !ok {
		r.order = append(r.order, selector)
	}
	r.tests[selector] = append(r.tests[selector], test)
}

// lookup returns the tests registered under selector.
func (r *registry) lookup(selector string) []TestFunc {
	return r.tests[selector]
}

// selectors returns the registered selectors in first-declaration order.
func (r *registry) selectors() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
