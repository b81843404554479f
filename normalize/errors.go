package normalize

import "errors"

var (
	// ErrKnowledgeBaseRequired is returned when a knowledge base is not provided.
	ErrKnowledgeBaseRequired = errors.New("knowledge base required")

	// ErrLemmatizerRequired is returned when a nil lemmatizer is injected.
	ErrLemmatizerRequired = errors.New("lemmatizer required")
)
