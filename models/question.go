package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Question is a stored quiz question. CorrectOption holds a token "1".."4"
// naming the correct choice; legacy rows may hold arbitrary text instead.
type Question struct {
	Id            uint   `json:"id" gorm:"primaryKey"`
	CategoryId    uint   `json:"category_id" gorm:"not null;index"`
	QuestionText  string `json:"question_text" gorm:"type:text;not null"`
	Option1       string `json:"option_1" gorm:"column:option_1;not null"`
	Option2       string `json:"option_2" gorm:"column:option_2;not null"`
	Option3       string `json:"option_3" gorm:"column:option_3;not null"`
	Option4       string `json:"option_4" gorm:"column:option_4;not null"`
	CorrectOption string `json:"correct_option" gorm:"size:32;not null"`
	// SubmissionId is the idempotency key stamped by the submit service.
	// The unique index makes queue redelivery harmless.
	SubmissionId string `json:"-" gorm:"size:36;uniqueIndex"`
}

func (question *Question) BeforeCreate(tx *gorm.DB) (err error) {
	// Rows created outside the queue path still need a unique key.
	if question.SubmissionId == "" {
		question.SubmissionId = uuid.NewString()
	}
	return
}

// IsCorrectAnswer reports whether answer matches the correct choice.
// When CorrectOption is a valid token the answer is compared against the
// text of that choice; otherwise against the stored value itself.
func (q Question) IsCorrectAnswer(answer string) bool {
	switch q.CorrectOption {
	case "1":
		return answer == q.Option1
	case "2":
		return answer == q.Option2
	case "3":
		return answer == q.Option3
	case "4":
		return answer == q.Option4
	default:
		return answer == q.CorrectOption
	}
}

// SubmittedQuestion is a question joined with its category name, as served
// by the submit service's review listing.
type SubmittedQuestion struct {
	Id            uint   `json:"id"`
	QuestionText  string `json:"question_text"`
	Option1       string `json:"option_1"`
	Option2       string `json:"option_2"`
	Option3       string `json:"option_3"`
	Option4       string `json:"option_4"`
	CorrectOption string `json:"correct_option"`
	Category      string `json:"category"`
}
