package managers

import "errors"

var (
	// ErrNoTable is returned when a statement has no table to act on.
	ErrNoTable = errors.New("relq: no table")

	// ErrNoAssignments is returned for an UPDATE or INSERT with nothing to
	// set.
	ErrNoAssignments = errors.New("relq: no assignments")

	// ErrNoJoin is returned when On was called before any join was added.
	ErrNoJoin = errors.New("relq: no join to attach ON to")

	errNoEngine = errors.New("relq: manager has no engine")
)

// SourceTag is the label passed to Engine.Update and Engine.Delete for
// statements issued by the managers.
const SourceTag = "RELQ"
