package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DirectionDebit  = "debit"
	DirectionCredit = "credit"
)

// Statement line classification statuses.
const (
	StatusNew         = "new"
	StatusCategorized = "categorized"
	StatusMatched     = "matched"
	StatusNeedsReview = "needs_review"
)

// StatementLine is one bank statement row pulled from the accounting system.
type StatementLine struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID `gorm:"index;uniqueIndex:idx_statement_identity"`
	ExternalID string    `gorm:"uniqueIndex:idx_statement_identity"`
	LineDate   time.Time `gorm:"column:line_date"`
	// Amount is signed: negative for debit, positive for credit.
	Amount                float64 `gorm:"index"`
	Direction             string
	CounterpartyName      string
	CounterpartyTaxID     string
	Purpose               string
	OperationCode         string `gorm:"index"`
	CategoryID            *uuid.UUID
	ConfidenceScore       float64
	Status                string `gorm:"index"`
	ClassificationDetails datatypes.JSON
	LastSyncedAt          time.Time
	CreatedAt             time.Time
}
