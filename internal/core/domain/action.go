package domain

// ActionKind enumerates the three reconciliation outcomes for a document.
type ActionKind int

const (
	// ActionSkip leaves the destination untouched.
	ActionSkip ActionKind = iota

	// ActionFetch transfers the document bytes and writes them under the
	// computed destination name, overwriting any previous object.
	ActionFetch

	// ActionRename moves the existing destination object to the newly
	// computed name without re-transferring bytes.
	ActionRename
)

// Action is the reconciler's decision for one document.
type Action struct {
	Kind ActionKind

	// OldName is the destination name currently on record.
	// Set only for ActionRename.
	OldName string
}

func (k ActionKind) String() string {
	switch k {
	case ActionFetch:
		return "fetch"
	case ActionRename:
		return "rename"
	default:
		return "skip"
	}
}
