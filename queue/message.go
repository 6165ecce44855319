package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"quizhub-backend/models"
)

// ErrMalformedMessage marks a queue payload that cannot be turned into a
// question. Such messages are rejected without requeue; they cannot
// self-correct.
var ErrMalformedMessage = errors.New("malformed question message")

// QuestionMessage is the wire form of a submitted question while it sits on
// the durable queue. SubmissionId makes redelivered copies identifiable.
type QuestionMessage struct {
	SubmissionId  string `json:"submission_id"`
	CategoryId    uint   `json:"category_id"`
	QuestionText  string `json:"question_text"`
	Option1       string `json:"option_1"`
	Option2       string `json:"option_2"`
	Option3       string `json:"option_3"`
	Option4       string `json:"option_4"`
	CorrectOption string `json:"correct_option"`
}

// DecodeQuestionMessage parses and checks a queue payload.
func DecodeQuestionMessage(body []byte) (QuestionMessage, error) {
	var msg QuestionMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return QuestionMessage{}, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if msg.CategoryId == 0 || msg.QuestionText == "" || msg.CorrectOption == "" ||
		msg.Option1 == "" || msg.Option2 == "" || msg.Option3 == "" || msg.Option4 == "" {
		return QuestionMessage{}, fmt.Errorf("%w: missing required fields", ErrMalformedMessage)
	}
	return msg, nil
}

// Question maps the message onto its store row.
func (m QuestionMessage) Question() models.Question {
	return models.Question{
		CategoryId:    m.CategoryId,
		QuestionText:  m.QuestionText,
		Option1:       m.Option1,
		Option2:       m.Option2,
		Option3:       m.Option3,
		Option4:       m.Option4,
		CorrectOption: m.CorrectOption,
		SubmissionId:  m.SubmissionId,
	}
}
