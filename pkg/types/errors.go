package types

import (
	"errors"
	"fmt"
	"regexp"
)

// Input errors: caller mistakes, surfaced immediately and never retried.
var (
	ErrNoContent             = errors.New("no content extracted")
	ErrMissingQueryVector    = errors.New("query vector required")
	ErrInvalidTopK           = errors.New("invalid top_k")
	ErrInvalidQuery          = errors.New("invalid query")
	ErrInvalidMode           = errors.New("invalid search mode")
	ErrUnsupportedFormat     = errors.New("unsupported document format")
	ErrEmptyDocument         = errors.New("empty document")
	ErrInvalidCollectionName = errors.New("invalid collection name")
	ErrInvalidWeights        = errors.New("invalid fusion weights")
)

// ErrCollectionNotFound is returned when an operation names a collection
// that was never ingested into.
var ErrCollectionNotFound = errors.New("collection not found")

// Stage identifies the pipeline stage where a fatal failure occurred.
type Stage string

const (
	StageExtraction   Stage = "extraction"
	StageChunking     Stage = "chunking"
	StageEmbedding    Stage = "embedding"
	StageVectorWrite  Stage = "vector_write"
	StageVectorQuery  Stage = "vector_query"
	StageLexicalWrite Stage = "lexical_write"
	StageLexicalQuery Stage = "lexical_query"
)

// StageError wraps a collaborator failure with the pipeline stage that it
// aborted, so callers can tell which part of the pipeline to look at.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with its failing stage.
func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// collectionNamePattern is the fixed charset/length contract for
// collection names: 1-64 characters of lowercase letters, digits, dots,
// underscores and hyphens, starting with a letter or digit.
var collectionNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]{0,63}$`)

// ValidateCollectionName enforces the collection naming contract. It is
// called eagerly at ingest and search entry, never deferred to query time.
func ValidateCollectionName(name string) error {
	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCollectionName, name)
	}
	return nil
}
