package types

// Session is one open correspondence: the pair of directory entries linking a
// correspondent to their thread.
type Session struct {
	Correspondent CorrespondentID `json:"correspondent" yaml:"correspondent"`
	Thread        ThreadID        `json:"thread" yaml:"thread"`
}

// RecoveryReport summarises one pass of the recovery engine.
type RecoveryReport struct {
	Scanned    int `json:"scanned" yaml:"scanned"`       // threads under the forum
	Recovered  int `json:"recovered" yaml:"recovered"`   // pairs installed
	Skipped    int `json:"skipped" yaml:"skipped"`       // fetch failures and orphans
	Duplicates int `json:"duplicates" yaml:"duplicates"` // threads superseded by a later one
}
