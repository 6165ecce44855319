package models

import (
	"time"

	"gorm.io/datatypes"
)

// Submission is the audit record the submit service writes before publishing
// a question to the queue. It keeps the raw payload so a submission can be
// traced even if the message is still in flight (or was lost to the broker).
type Submission struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	SubmissionId string         `json:"submission_id" gorm:"size:36;uniqueIndex"`
	Payload      datatypes.JSON `json:"payload"`
	CreatedAt    time.Time      `json:"created_at"`
}
