// file: internals/features/stats/events/model/processed_event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
)

/* =============================================================================
   MODEL: processed_events — ledger idempotensi.
   Baris dibuat tepat sekali per event id, SETELAH seluruh efek event
   commit (dalam transaksi yang sama). Keberadaan baris = sinyal dedupe;
   redelivery transport jadi no-op aman.
============================================================================= */
type ProcessedEventModel struct {
	ProcessedEventID          uuid.UUID  `json:"processed_event_id" gorm:"column:processed_event_id;type:uuid;primaryKey"`
	ProcessedEventType        string     `json:"processed_event_type" gorm:"column:processed_event_type;type:varchar(40);not null"`
	ProcessedEventOccurredAt  *time.Time `json:"processed_event_occurred_at,omitempty" gorm:"column:processed_event_occurred_at"`
	ProcessedEventProcessedAt time.Time  `json:"processed_event_processed_at" gorm:"column:processed_event_processed_at;not null"`
}

func (ProcessedEventModel) TableName() string { return "processed_events" }
