package constants

// ExtractionStatus is the typed outcome of one phrase extraction call.
type ExtractionStatus string

const (
	StatusOK    ExtractionStatus = "OK"    // entries were produced
	StatusEmpty ExtractionStatus = "EMPTY" // backend answered, nothing usable
	StatusError ExtractionStatus = "ERROR" // backend or output broken
)

// EntryKind labels which bucket a classified entry belongs to.
type EntryKind string

const (
	KindVocabulary EntryKind = "vocabulary"
	KindPhrase     EntryKind = "phrase"
)
