package records

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/crewledger/seatime/internal/eligibility"
	"github.com/crewledger/seatime/internal/parsing"
	"github.com/crewledger/seatime/pkg/pagination"
)

// System defines the public contract for service record domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[ServiceRecord], error)

	Find(ctx context.Context, id uuid.UUID) (*ServiceRecord, error)

	// InsertTx persists an extracted period within the caller's transaction,
	// so a letter and its records commit or roll back together.
	InsertTx(
		ctx context.Context,
		tx *sql.Tx,
		userID uuid.UUID,
		letterID uuid.UUID,
		period parsing.ServicePeriod,
	) (*ServiceRecord, error)

	// IsDuplicate reports whether an identical period already exists for the
	// user: same vessel name, sign-on, and sign-off.
	IsDuplicate(
		ctx context.Context,
		userID uuid.UUID,
		vesselName string,
		signOn, signOff time.Time,
	) (bool, error)

	Verify(ctx context.Context, id uuid.UUID, cmd VerifyCommand) (*ServiceRecord, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*ServiceRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Qualifying returns the user's periods usable by the eligibility
	// evaluator: vessel and both dates known, days counted, no error flags.
	Qualifying(ctx context.Context, userID uuid.UUID) ([]eligibility.ServiceRecord, error)
}
