package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/crewledger/seatime/internal/eligibility"
	"github.com/crewledger/seatime/internal/parsing"
	"github.com/crewledger/seatime/pkg/pagination"
	"github.com/crewledger/seatime/pkg/query"
	"github.com/crewledger/seatime/pkg/repository"
)

// recordColumns is the RETURNING list for statements against service_records.
// It matches scanRecordRow, which has no joined letter metadata.
const recordColumns = `id, user_id, letter_id, vessel_name, sign_on, sign_off,
	days_served, position, position_matched, department, gross_tonnage,
	horsepower, propulsion, route, confidence, flags, verified_by, verified_at,
	created_at, updated_at`

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a service record repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "records"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[ServiceRecord], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "VesselName", "Position")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count service records: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query service records: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*ServiceRecord, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) InsertTx(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	letterID uuid.UUID,
	period parsing.ServicePeriod,
) (*ServiceRecord, error) {
	flagsJSON, err := json.Marshal(period.Flags)
	if err != nil {
		return nil, fmt.Errorf("marshal flags: %w", err)
	}

	q := `
		INSERT INTO service_records(
			user_id, letter_id, vessel_name, sign_on, sign_off, days_served,
			position, position_matched, department, gross_tonnage, horsepower,
			propulsion, route, confidence, flags
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + recordColumns

	args := []any{
		userID,
		letterID,
		period.VesselName,
		period.SignOn,
		period.SignOff,
		period.DaysServed,
		period.Position,
		period.PositionMatched,
		string(period.Department),
		period.GrossTonnage,
		period.Horsepower,
		string(period.Propulsion),
		string(period.Route),
		string(period.Confidence),
		flagsJSON,
	}

	rec, err := repository.QueryOne(ctx, tx, q, args, scanRecordRow)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &rec, nil
}

func (r *repo) IsDuplicate(
	ctx context.Context,
	userID uuid.UUID,
	vesselName string,
	signOn, signOff time.Time,
) (bool, error) {
	qb := query.
		NewBuilder(projection).
		WhereEquals("UserID", userID).
		WhereEquals("VesselName", vesselName).
		WhereEquals("SignOn", signOn).
		WhereEquals("SignOff", signOff)

	countSQL, countArgs := qb.BuildCount()

	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return false, fmt.Errorf("check duplicate period: %w", err)
	}

	return total > 0, nil
}

func (r *repo) Verify(ctx context.Context, id uuid.UUID, cmd VerifyCommand) (*ServiceRecord, error) {
	if cmd.VerifiedBy == "" {
		return nil, ErrNoReviewer
	}

	q := `
		UPDATE service_records
		SET verified_by = $1, verified_at = NOW(), updated_at = NOW()
		WHERE id = $2
		RETURNING ` + recordColumns

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ServiceRecord, error) {
		return repository.QueryOne(ctx, tx, q, []any{cmd.VerifiedBy, id}, scanRecordRow)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("service record verified", "id", rec.ID, "verified_by", cmd.VerifiedBy)
	return &rec, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*ServiceRecord, error) {
	if cmd.UpdatedBy == "" {
		return nil, ErrNoReviewer
	}

	current, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	cmd.apply(current)

	if (cmd.SignOn != nil || cmd.SignOff != nil) && cmd.DaysServed == nil {
		current.DaysServed = inclusiveDays(current.SignOn, current.SignOff)
	}

	// Corrections invalidate the stored findings, so both are rebuilt from
	// the corrected values rather than patched.
	period := current.Period()
	flags := parsing.Validate(&period)
	confidence := parsing.RatePeriod(&period, flags)

	flagsJSON, err := json.Marshal(flags)
	if err != nil {
		return nil, fmt.Errorf("marshal flags: %w", err)
	}

	q := `
		UPDATE service_records
		SET vessel_name = $1, sign_on = $2, sign_off = $3, days_served = $4,
			position = $5, position_matched = $6, department = $7,
			gross_tonnage = $8, horsepower = $9, propulsion = $10, route = $11,
			confidence = $12, flags = $13, verified_by = $14,
			verified_at = NOW(), updated_at = NOW()
		WHERE id = $15
		RETURNING ` + recordColumns

	args := []any{
		current.VesselName,
		current.SignOn,
		current.SignOff,
		current.DaysServed,
		current.Position,
		current.PositionMatched,
		string(current.Department),
		current.GrossTonnage,
		current.Horsepower,
		string(current.Propulsion),
		string(current.Route),
		string(confidence),
		flagsJSON,
		cmd.UpdatedBy,
		id,
	}

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ServiceRecord, error) {
		return repository.QueryOne(ctx, tx, q, args, scanRecordRow)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("service record updated", "id", rec.ID, "updated_by", cmd.UpdatedBy)
	return &rec, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM service_records WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("service record deleted", "id", id)
	return nil
}

func (r *repo) Qualifying(ctx context.Context, userID uuid.UUID) ([]eligibility.ServiceRecord, error) {
	q := `
		SELECT vessel_name, sign_on, sign_off, days_served, department,
			gross_tonnage, propulsion, route
		FROM service_records
		WHERE user_id = $1
			AND vessel_name <> $2
			AND sign_on IS NOT NULL
			AND sign_off IS NOT NULL
			AND days_served IS NOT NULL
			AND NOT flags @> '[{"severity": "error"}]'
		ORDER BY sign_on`

	items, err := repository.QueryMany(
		ctx, r.db, q,
		[]any{userID, parsing.UnknownVessel},
		scanQualifying,
	)
	if err != nil {
		return nil, fmt.Errorf("query qualifying records: %w", err)
	}

	return items, nil
}

func scanQualifying(s repository.Scanner) (eligibility.ServiceRecord, error) {
	var rec eligibility.ServiceRecord
	err := s.Scan(
		&rec.VesselName,
		&rec.SignOn,
		&rec.SignOff,
		&rec.DaysServed,
		&rec.Department,
		&rec.GrossTonnage,
		&rec.Propulsion,
		&rec.Route,
	)
	return rec, err
}

func scanRecordRow(s repository.Scanner) (ServiceRecord, error) {
	var (
		rec       ServiceRecord
		flagsJSON []byte
	)

	err := s.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.LetterID,
		&rec.VesselName,
		&rec.SignOn,
		&rec.SignOff,
		&rec.DaysServed,
		&rec.Position,
		&rec.PositionMatched,
		&rec.Department,
		&rec.GrossTonnage,
		&rec.Horsepower,
		&rec.Propulsion,
		&rec.Route,
		&rec.Confidence,
		&flagsJSON,
		&rec.VerifiedBy,
		&rec.VerifiedAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return rec, err
	}

	if len(flagsJSON) > 0 {
		if err := json.Unmarshal(flagsJSON, &rec.Flags); err != nil {
			return rec, err
		}
	}

	return rec, nil
}

func inclusiveDays(signOn, signOff *time.Time) *int {
	if signOn == nil || signOff == nil || signOff.Before(*signOn) {
		return nil
	}
	days := int(signOff.Sub(*signOn).Hours()/24) + 1
	return &days
}
