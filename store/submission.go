package store

import (
	"context"
	"fmt"

	"quizhub-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SubmissionStore records the audit trail of published question submissions.
type SubmissionStore struct {
	db *gorm.DB
}

func NewSubmissionStore(db *gorm.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// Record stores the raw payload under its submission id.
func (s *SubmissionStore) Record(ctx context.Context, submissionId string, payload []byte) error {
	submission := models.Submission{
		SubmissionId: submissionId,
		Payload:      datatypes.JSON(payload),
	}
	if err := s.db.WithContext(ctx).Create(&submission).Error; err != nil {
		return fmt.Errorf("record submission %s: %w", submissionId, err)
	}
	return nil
}
