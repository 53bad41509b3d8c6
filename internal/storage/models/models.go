package models

import (
	"time"

	"github.com/misinfo-detector/backend/internal/evidence"
)

// VerificationRecord is one persisted claim verification. Records are
// written once and never updated; the only mutation is deletion by ID.
type VerificationRecord struct {
	ID          int64
	Text        string
	Verdict     string
	Confidence  int
	Explanation string
	Sources     evidence.Bundle
	CreatedAt   time.Time
}
