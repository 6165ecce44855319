package controllers

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"quizhub-backend/middlewares"
	"quizhub-backend/store"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const maxQuestionCount = 50

// QuestionController serves random questions and checks submitted answers.
type QuestionController struct {
	categories *store.CategoryStore
	questions  *store.QuestionStore
	log        *slog.Logger
}

func NewQuestionController(categories *store.CategoryStore, questions *store.QuestionStore, log *slog.Logger) *QuestionController {
	return &QuestionController{categories: categories, questions: questions, log: log}
}

type SubmitAnswerInput struct {
	QuestionId uint   `json:"questionId" validate:"required"`
	Answer     string `json:"answer" validate:"required"`
}

// GetQuestions returns random questions, optionally filtered by the
// :category path parameter. No matching rows is an empty array, not an
// error.
func (ctrl *QuestionController) GetQuestions(c *fiber.Ctx) error {
	var categoryId uint
	if raw := c.Params("category"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "invalid category id")
		}
		categoryId = uint(parsed)
	}

	count := c.QueryInt("count", 1)
	if count < 1 {
		count = 1
	}
	if count > maxQuestionCount {
		count = maxQuestionCount
	}

	questions, err := ctrl.questions.Random(c.UserContext(), categoryId, count)
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

// GetCategories reads straight from the store; no caching at this tier.
func (ctrl *QuestionController) GetCategories(c *fiber.Ctx) error {
	categories, err := ctrl.categories.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(categories)
}

// SubmitAnswer checks an answer against the question's correct choice.
// Side-effect free; nothing is recorded.
func (ctrl *QuestionController) SubmitAnswer(c *fiber.Ctx) error {
	var input SubmitAnswerInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	question, err := ctrl.questions.ByID(c.UserContext(), input.QuestionId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "question not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"correct": question.IsCorrectAnswer(strings.TrimSpace(input.Answer)),
	})
}

func (ctrl *QuestionController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "question service is running"})
}
