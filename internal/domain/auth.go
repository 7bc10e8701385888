package domain

// Identity is the subject resolved from a verified token. It is never stored.
type Identity struct {
	SubjectID string
}
