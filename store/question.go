package store

import (
	"context"
	"fmt"

	"quizhub-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuestionStore persists and serves quiz questions.
type QuestionStore struct {
	db *gorm.DB
}

func NewQuestionStore(db *gorm.DB) *QuestionStore {
	return &QuestionStore{db: db}
}

// CreateFromSubmission inserts a question keyed by its submission id.
// A redelivered message hits the unique index and is skipped; the second
// return value is false when the row already existed.
func (s *QuestionStore) CreateFromSubmission(ctx context.Context, question *models.Question) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "submission_id"}},
			DoNothing: true,
		}).
		Create(question)
	if result.Error != nil {
		return false, fmt.Errorf("insert question (submission %s): %w", question.SubmissionId, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Random returns up to count questions chosen by the engine's random-order
// operator, optionally filtered by category. A single query never repeats a
// row, but the distribution is whatever the engine provides; with fewer
// matching rows than count, all of them are returned.
func (s *QuestionStore) Random(ctx context.Context, categoryId uint, count int) ([]models.Question, error) {
	questions := []models.Question{}
	tx := s.db.WithContext(ctx)
	if categoryId != 0 {
		tx = tx.Where("category_id = ?", categoryId)
	}
	err := tx.Order(randomOrder(s.db)).Limit(count).Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("select random questions (category %d): %w", categoryId, err)
	}
	return questions, nil
}

// ByID fetches one question. gorm.ErrRecordNotFound passes through so the
// caller can map it to a not-found response.
func (s *QuestionStore) ByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := s.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}
	return question, nil
}

// Recent lists the newest questions joined with their category name.
func (s *QuestionStore) Recent(ctx context.Context, limit int) ([]models.SubmittedQuestion, error) {
	submitted := []models.SubmittedQuestion{}
	err := s.db.WithContext(ctx).
		Table("questions q").
		Select("q.id, q.question_text, q.option_1, q.option_2, q.option_3, q.option_4, q.correct_option, c.name AS category").
		Joins("JOIN categories c ON q.category_id = c.id").
		Order("q.id DESC").
		Limit(limit).
		Scan(&submitted).Error
	if err != nil {
		return nil, fmt.Errorf("list submitted questions: %w", err)
	}
	return submitted, nil
}

// randomOrder picks the native random-ordering operator for the dialect.
func randomOrder(db *gorm.DB) string {
	if db.Dialector.Name() == "mysql" {
		return "RAND()"
	}
	return "RANDOM()"
}
