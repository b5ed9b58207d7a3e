package letters

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/crewledger/seatime/internal/ocr"
	"github.com/crewledger/seatime/internal/parsing"
	"github.com/crewledger/seatime/internal/records"
	"github.com/crewledger/seatime/pkg/pagination"
	"github.com/crewledger/seatime/pkg/query"
	"github.com/crewledger/seatime/pkg/repository"
	"github.com/crewledger/seatime/pkg/storage"
)

// batchConcurrency bounds concurrent letter processing in a batch upload.
// Letters are independent, so the limit only protects the OCR service and
// the connection pool.
const batchConcurrency = 4

type repo struct {
	db         *sql.DB
	storage    storage.System
	extractor  ocr.TextExtractor
	records    RecordStore
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a letter repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	extractor ocr.TextExtractor,
	recordStore RecordStore,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		extractor:  extractor,
		records:    recordStore,
		logger:     logger.With("system", "letters"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Letter], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename", "RawText")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count letters: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanLetter)
	if err != nil {
		return nil, fmt.Errorf("query letters: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Letter, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	l, err := repository.QueryOne(ctx, r.db, q, args, scanLetter)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &l, nil
}

func (r *repo) Process(ctx context.Context, cmd CreateCommand) (*ProcessResult, error) {
	if cmd.UserID == uuid.Nil {
		return nil, ErrMissingUser
	}
	if len(cmd.Data) == 0 {
		return nil, ErrInvalidFile
	}

	text, err := r.acquireText(ctx, cmd)
	if err != nil {
		return nil, err
	}

	parsed, err := parsing.Parse(text)
	if err != nil {
		return nil, ErrUnreadable
	}

	r.screenDuplicates(ctx, cmd.UserID, parsed.Periods)

	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload letter blob: %w", err)
	}

	insertQ := `
		INSERT INTO letters(
			id, user_id, filename, content_type, size_bytes, page_count,
			storage_key, raw_text, format, overall_confidence,
			needs_manual_review, processed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		RETURNING id, user_id, filename, content_type, size_bytes, page_count,
			storage_key, raw_text, format, overall_confidence,
			needs_manual_review, processed_at, uploaded_at, updated_at`

	insertArgs := []any{
		id,
		cmd.UserID,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
		parsed.RawText,
		string(parsed.Format),
		string(parsed.OverallConfidence),
		parsed.NeedsManualReview,
	}

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (ProcessResult, error) {
		letter, err := repository.QueryOne(ctx, tx, insertQ, insertArgs, scanLetter)
		if err != nil {
			return ProcessResult{}, fmt.Errorf("insert letter: %w", err)
		}

		inserted, duplicates, err := r.persistPeriods(ctx, tx, cmd.UserID, id, parsed.Periods)
		if err != nil {
			return ProcessResult{}, err
		}

		return ProcessResult{
			Letter:     &letter,
			Records:    inserted,
			Duplicates: duplicates,
		}, nil
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("letter processed",
		"id", id,
		"user_id", cmd.UserID,
		"format", parsed.Format,
		"periods", len(parsed.Periods),
		"duplicates", len(result.Duplicates),
		"needs_review", parsed.NeedsManualReview,
	)

	return &result, nil
}

func (r *repo) ProcessBatch(ctx context.Context, cmds []CreateCommand) []BatchResult {
	results := make([]BatchResult, len(cmds))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)

	for i, cmd := range cmds {
		g.Go(func() error {
			results[i] = BatchResult{Filename: cmd.Filename}

			res, err := r.Process(ctx, cmd)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}

			results[i].Result = res
			return nil
		})
	}

	g.Wait()
	return results
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	letter, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM letters WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, letter.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", letter.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("letter deleted", "id", id)
	return nil
}

// acquireText resolves the letter text: a pre-extracted text field wins,
// otherwise the document goes through the OCR service.
func (r *repo) acquireText(ctx context.Context, cmd CreateCommand) (string, error) {
	if strings.TrimSpace(cmd.Text) != "" {
		return cmd.Text, nil
	}

	text, err := r.extractor.ExtractText(ctx, cmd.Filename, cmd.Data)
	if err != nil {
		if errors.Is(err, ocr.ErrNoText) {
			return "", ErrUnreadable
		}
		return "", fmt.Errorf("extract letter text: %w", err)
	}

	return text, nil
}

// persistPeriods inserts the screened periods within the letter's transaction.
// Duplicate-marked periods are excluded from insertion but retained in the
// returned slice so the caller's result still reports them.
func (r *repo) persistPeriods(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	letterID uuid.UUID,
	periods []parsing.ServicePeriod,
) ([]records.ServiceRecord, []parsing.ServicePeriod, error) {
	inserted := []records.ServiceRecord{}
	var duplicates []parsing.ServicePeriod

	for _, p := range periods {
		if p.IsDuplicate {
			duplicates = append(duplicates, p)
			continue
		}

		rec, err := r.records.InsertTx(ctx, tx, userID, letterID, p)
		if err != nil {
			return nil, nil, fmt.Errorf("insert service record: %w", err)
		}
		inserted = append(inserted, *rec)
	}

	return inserted, duplicates, nil
}

// screenDuplicates marks extracted periods that already exist for the user.
// Only periods with a complete key are screened; a failed lookup keeps the
// period rather than silently dropping service time.
func (r *repo) screenDuplicates(ctx context.Context, userID uuid.UUID, periods []parsing.ServicePeriod) {
	for i := range periods {
		p := &periods[i]
		if !p.DuplicateKeyComplete() {
			continue
		}

		dup, err := r.records.IsDuplicate(ctx, userID, p.VesselName, *p.SignOn, *p.SignOff)
		if err != nil {
			r.logger.Warn("duplicate check failed, keeping period",
				"vessel", p.VesselName,
				"error", err,
			)
			continue
		}

		p.IsDuplicate = dup
	}
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("letters/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "letter"
	}
	return url.PathEscape(name)
}
