package letters

import (
	"context"

	"github.com/google/uuid"

	"github.com/crewledger/seatime/pkg/pagination"
)

// System defines the public contract for letter domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Letter], error)

	Find(ctx context.Context, id uuid.UUID) (*Letter, error)

	// Process runs the full pipeline for one letter: blob upload, text
	// acquisition, extraction, duplicate screening, and transactional
	// persistence of the letter with its non-duplicate periods.
	Process(ctx context.Context, cmd CreateCommand) (*ProcessResult, error)

	// ProcessBatch processes independent letters concurrently. Each entry in
	// the result corresponds to the command at the same index; one letter's
	// failure never aborts the others.
	ProcessBatch(ctx context.Context, cmds []CreateCommand) []BatchResult

	Delete(ctx context.Context, id uuid.UUID) error
}
