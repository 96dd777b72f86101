package interfaces

import domaintypes "modmail/internal/domain/types"

// Directory is the bidirectional correspondent <-> thread map. Every method
// is atomic with respect to the others.
type Directory interface {
	LookupThread(correspondent domaintypes.CorrespondentID) (domaintypes.ThreadID, bool)
	LookupCorrespondent(thread domaintypes.ThreadID) (domaintypes.CorrespondentID, bool)
	Insert(correspondent domaintypes.CorrespondentID, thread domaintypes.ThreadID)
	RemoveByThread(thread domaintypes.ThreadID) (domaintypes.CorrespondentID, bool)
	ReplaceAll(sessions []domaintypes.Session)
	Snapshot() []domaintypes.Session
	Len() int
}
