package dom

// MutationKind is the mutation type discriminator.
type MutationKind uint8

const (
	MutationText        MutationKind = iota // Text content replaced
	MutationClassAdd                        // Class added
	MutationClassRemove                     // Class removed
)

// String returns the wire name of the mutation kind.
func (k MutationKind) String() string {
	switch k {
	case MutationText:
		return "text"
	case MutationClassAdd:
		return "addClass"
	case MutationClassRemove:
		return "removeClass"
	default:
		return "unknown"
	}
}

// Mutation records one change made to the document through the API.
type Mutation struct {
	Kind   MutationKind
	Target *Element
	Value  string
}
