package api

import (
	"github.com/crewledger/seatime/internal/letters"
	"github.com/crewledger/seatime/internal/records"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Letters letters.System
	Records records.System
}

// NewDomain creates all domain systems from the API runtime.
// The records system doubles as the letter pipeline's record store, so a
// letter and its extracted periods share one transaction.
func NewDomain(runtime *Runtime) *Domain {
	recordsSystem := records.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	lettersSystem := letters.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.OCR,
		recordsSystem,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Letters: lettersSystem,
		Records: recordsSystem,
	}
}
