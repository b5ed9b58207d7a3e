package letters

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/crewledger/seatime/pkg/query"
	"github.com/crewledger/seatime/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "letters", "l").
	Project("id", "ID").
	Project("user_id", "UserID").
	Project("filename", "Filename").
	Project("content_type", "ContentType").
	Project("size_bytes", "SizeBytes").
	Project("page_count", "PageCount").
	Project("storage_key", "StorageKey").
	Project("raw_text", "RawText").
	Project("format", "Format").
	Project("overall_confidence", "OverallConfidence").
	Project("needs_manual_review", "NeedsManualReview").
	Project("processed_at", "ProcessedAt").
	Project("uploaded_at", "UploadedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UploadedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for letter queries.
// Nil fields are ignored. Filename uses case-insensitive contains matching;
// the rest use exact matching.
type Filters struct {
	UserID            *uuid.UUID `json:"user_id,omitempty"`
	Filename          *string    `json:"filename,omitempty"`
	Format            *string    `json:"format,omitempty"`
	OverallConfidence *string    `json:"overall_confidence,omitempty"`
	NeedsManualReview *bool      `json:"needs_manual_review,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("UserID", f.UserID).
		WhereContains("Filename", f.Filename).
		WhereEquals("Format", f.Format).
		WhereEquals("OverallConfidence", f.OverallConfidence).
		WhereEquals("NeedsManualReview", f.NeedsManualReview)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if uid := values.Get("user_id"); uid != "" {
		if v, err := uuid.Parse(uid); err == nil {
			f.UserID = &v
		}
	}

	if fn := values.Get("filename"); fn != "" {
		f.Filename = &fn
	}

	if ft := values.Get("format"); ft != "" {
		f.Format = &ft
	}

	if oc := values.Get("overall_confidence"); oc != "" {
		f.OverallConfidence = &oc
	}

	if nr := values.Get("needs_manual_review"); nr != "" {
		if b, err := strconv.ParseBool(nr); err == nil {
			f.NeedsManualReview = &b
		}
	}

	return f
}

func scanLetter(s repository.Scanner) (Letter, error) {
	var l Letter
	err := s.Scan(
		&l.ID,
		&l.UserID,
		&l.Filename,
		&l.ContentType,
		&l.SizeBytes,
		&l.PageCount,
		&l.StorageKey,
		&l.RawText,
		&l.Format,
		&l.OverallConfidence,
		&l.NeedsManualReview,
		&l.ProcessedAt,
		&l.UploadedAt,
		&l.UpdatedAt,
	)
	return l, err
}
