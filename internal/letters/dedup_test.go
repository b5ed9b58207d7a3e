package letters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/crewledger/seatime/internal/parsing"
	"github.com/crewledger/seatime/internal/records"
)

// stubRecordStore keys existing periods on vessel name and both dates, the
// same key the live duplicate guard queries on.
type stubRecordStore struct {
	existing  map[string]bool
	lookupErr map[string]error
	lookups   []string
	inserted  []parsing.ServicePeriod
	insertErr error
}

func periodKey(vessel string, signOn, signOff time.Time) string {
	return fmt.Sprintf("%s|%s|%s",
		vessel,
		signOn.Format("2006-01-02"),
		signOff.Format("2006-01-02"),
	)
}

func (s *stubRecordStore) InsertTx(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	letterID uuid.UUID,
	period parsing.ServicePeriod,
) (*records.ServiceRecord, error) {
	if s.insertErr != nil {
		return nil, s.insertErr
	}
	s.inserted = append(s.inserted, period)

	return &records.ServiceRecord{
		ID:         uuid.New(),
		UserID:     userID,
		LetterID:   &letterID,
		VesselName: period.VesselName,
		SignOn:     period.SignOn,
		SignOff:    period.SignOff,
	}, nil
}

func (s *stubRecordStore) IsDuplicate(
	ctx context.Context,
	userID uuid.UUID,
	vesselName string,
	signOn, signOff time.Time,
) (bool, error) {
	key := periodKey(vesselName, signOn, signOff)
	s.lookups = append(s.lookups, key)

	if err := s.lookupErr[key]; err != nil {
		return false, err
	}
	return s.existing[key], nil
}

func newDedupRepo(store *stubRecordStore) *repo {
	return &repo{
		records: store,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time { return &t }

func completePeriod(vessel string, signOn, signOff time.Time, position string) parsing.ServicePeriod {
	return parsing.ServicePeriod{
		VesselName: vessel,
		SignOn:     datePtr(signOn),
		SignOff:    datePtr(signOff),
		Position:   position,
	}
}

func TestScreenDuplicatesPositionNotPartOfKey(t *testing.T) {
	signOn := day(2021, time.February, 17)
	signOff := day(2021, time.July, 23)

	store := &stubRecordStore{
		existing: map[string]bool{
			periodKey("USNS ARCTIC", signOn, signOff): true,
		},
	}

	// Same vessel and dates as the stored record, different position.
	periods := []parsing.ServicePeriod{
		completePeriod("USNS ARCTIC", signOn, signOff, "SUPPLY UTILITYMAN"),
	}

	newDedupRepo(store).screenDuplicates(context.Background(), uuid.New(), periods)

	if !periods[0].IsDuplicate {
		t.Error("period differing only in position should be marked duplicate")
	}
}

func TestScreenDuplicatesDateDifferenceIsNotDuplicate(t *testing.T) {
	signOn := day(2021, time.February, 17)
	signOff := day(2021, time.July, 23)

	store := &stubRecordStore{
		existing: map[string]bool{
			periodKey("USNS ARCTIC", signOn, signOff): true,
		},
	}

	periods := []parsing.ServicePeriod{
		completePeriod("USNS ARCTIC", day(2021, time.February, 18), signOff, "JR SUPPLY OFFICER"),
		completePeriod("USNS ARCTIC", signOn, day(2021, time.July, 24), "JR SUPPLY OFFICER"),
	}

	newDedupRepo(store).screenDuplicates(context.Background(), uuid.New(), periods)

	for i, p := range periods {
		if p.IsDuplicate {
			t.Errorf("period %d with a differing date marked duplicate", i)
		}
	}
	if len(store.lookups) != 2 {
		t.Errorf("lookups = %d, want 2 (both periods carry complete keys)", len(store.lookups))
	}
}

func TestScreenDuplicatesSkipsIncompleteKeys(t *testing.T) {
	signOn := day(2021, time.February, 17)
	signOff := day(2021, time.July, 23)

	periods := []parsing.ServicePeriod{
		{VesselName: "USNS ARCTIC", SignOn: datePtr(signOn)},
		{VesselName: "USNS ARCTIC", SignOff: datePtr(signOff)},
		{VesselName: "", SignOn: datePtr(signOn), SignOff: datePtr(signOff)},
		{VesselName: parsing.UnknownVessel, SignOn: datePtr(signOn), SignOff: datePtr(signOff)},
	}

	store := &stubRecordStore{}
	newDedupRepo(store).screenDuplicates(context.Background(), uuid.New(), periods)

	if len(store.lookups) != 0 {
		t.Errorf("lookups = %v, want none for incomplete keys", store.lookups)
	}
	for i, p := range periods {
		if p.IsDuplicate {
			t.Errorf("period %d with incomplete key marked duplicate", i)
		}
	}
}

func TestScreenDuplicatesLookupFailureKeepsPeriod(t *testing.T) {
	signOn := day(2021, time.February, 17)
	signOff := day(2021, time.July, 23)
	laterOn := day(2023, time.February, 1)
	laterOff := day(2023, time.June, 10)

	store := &stubRecordStore{
		existing: map[string]bool{
			periodKey("USNS ARCTIC", signOn, signOff):   true,
			periodKey("USNS SUPPLY", laterOn, laterOff): true,
		},
		lookupErr: map[string]error{
			periodKey("USNS ARCTIC", signOn, signOff): errors.New("connection reset"),
		},
	}

	periods := []parsing.ServicePeriod{
		completePeriod("USNS ARCTIC", signOn, signOff, "JR SUPPLY OFFICER"),
		completePeriod("USNS SUPPLY", laterOn, laterOff, "JR SUPPLY OFFICER"),
	}

	newDedupRepo(store).screenDuplicates(context.Background(), uuid.New(), periods)

	if periods[0].IsDuplicate {
		t.Error("period with failed lookup should be kept, not marked duplicate")
	}
	if !periods[1].IsDuplicate {
		t.Error("screening should continue past a failed lookup")
	}
	if len(store.lookups) != 2 {
		t.Errorf("lookups = %d, want 2", len(store.lookups))
	}
}

func TestPersistPeriodsSplitsDuplicatesFromInserts(t *testing.T) {
	signOn := day(2021, time.February, 17)
	signOff := day(2021, time.July, 23)
	laterOn := day(2023, time.February, 1)
	laterOff := day(2023, time.June, 10)

	kept := completePeriod("USNS ARCTIC", signOn, signOff, "JR SUPPLY OFFICER")
	dup := completePeriod("USNS ARCTIC", laterOn, laterOff, "JR SUPPLY OFFICER")
	dup.IsDuplicate = true

	store := &stubRecordStore{}
	r := newDedupRepo(store)

	inserted, duplicates, err := r.persistPeriods(
		context.Background(), nil, uuid.New(), uuid.New(),
		[]parsing.ServicePeriod{kept, dup},
	)
	if err != nil {
		t.Fatalf("persistPeriods: %v", err)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("store inserts = %d, want 1 (duplicates excluded)", len(store.inserted))
	}
	if store.inserted[0].SignOn == nil || !store.inserted[0].SignOn.Equal(signOn) {
		t.Errorf("inserted period = %+v, want the non-duplicate", store.inserted[0])
	}

	if len(inserted) != 1 {
		t.Errorf("inserted records = %d, want 1", len(inserted))
	}
	if len(duplicates) != 1 || !duplicates[0].IsDuplicate {
		t.Fatalf("duplicates = %+v, want the marked period retained", duplicates)
	}
	if !duplicates[0].SignOn.Equal(laterOn) {
		t.Errorf("retained duplicate = %+v, want the marked period", duplicates[0])
	}
}

func TestPersistPeriodsInsertFailureAborts(t *testing.T) {
	signOn := day(2021, time.February, 17)
	signOff := day(2021, time.July, 23)

	store := &stubRecordStore{insertErr: errors.New("constraint violation")}

	_, _, err := newDedupRepo(store).persistPeriods(
		context.Background(), nil, uuid.New(), uuid.New(),
		[]parsing.ServicePeriod{
			completePeriod("USNS ARCTIC", signOn, signOff, "JR SUPPLY OFFICER"),
		},
	)
	if err == nil {
		t.Fatal("expected insert failure to propagate")
	}
}
