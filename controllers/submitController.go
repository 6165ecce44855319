package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"quizhub-backend/cache"
	"quizhub-backend/middlewares"
	"quizhub-backend/queue"
	"quizhub-backend/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const publishTimeout = 5 * time.Second

// QuestionPublisher is what the submit endpoint needs from the queue.
type QuestionPublisher interface {
	Publish(ctx context.Context, msg queue.QuestionMessage) error
}

// CacheRefresher kicks an asynchronous category snapshot refresh.
type CacheRefresher interface {
	Trigger()
}

// SubmitController handles question and category submissions.
type SubmitController struct {
	categories  *store.CategoryStore
	questions   *store.QuestionStore
	submissions *store.SubmissionStore
	publisher   QuestionPublisher
	cache       *cache.FileCache
	refresher   CacheRefresher
	fetch       cache.FetchFunc
	log         *slog.Logger
}

// SubmitDeps wires the controller. Fetch is the upstream category source for
// cache misses; it may be nil, in which case the store is read directly.
type SubmitDeps struct {
	Categories  *store.CategoryStore
	Questions   *store.QuestionStore
	Submissions *store.SubmissionStore
	Publisher   QuestionPublisher
	Cache       *cache.FileCache
	Refresher   CacheRefresher
	Fetch       cache.FetchFunc
	Log         *slog.Logger
}

func NewSubmitController(deps SubmitDeps) *SubmitController {
	return &SubmitController{
		categories:  deps.Categories,
		questions:   deps.Questions,
		submissions: deps.Submissions,
		publisher:   deps.Publisher,
		cache:       deps.Cache,
		refresher:   deps.Refresher,
		fetch:       deps.Fetch,
		log:         deps.Log,
	}
}

type AddCategoryInput struct {
	Name string `json:"name" validate:"required"`
}

type SubmitQuestionInput struct {
	CategoryId    uint   `json:"category_id" validate:"required"`
	QuestionText  string `json:"question_text" validate:"required"`
	Option1       string `json:"option_1" validate:"required"`
	Option2       string `json:"option_2" validate:"required"`
	Option3       string `json:"option_3" validate:"required"`
	Option4       string `json:"option_4" validate:"required"`
	CorrectOption string `json:"correct_option" validate:"required,oneof=1 2 3 4"`
}

// AddCategory inserts a category synchronously and kicks a cache refresh.
// The refresh is fire-and-forget; its failure never fails this request.
func (ctrl *SubmitController) AddCategory(c *fiber.Ctx) error {
	var input AddCategoryInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category name is required")
	}

	category, err := ctrl.categories.Create(c.UserContext(), name)
	if err != nil {
		return err
	}

	ctrl.refresher.Trigger()

	return c.JSON(fiber.Map{
		"message":     "category added successfully",
		"category_id": category.Id,
	})
}

// SubmitQuestion validates the submission and publishes it onto the durable
// queue. Success means the broker accepted the publish; persistence happens
// later in the ETL worker.
func (ctrl *SubmitController) SubmitQuestion(c *fiber.Ctx) error {
	var input SubmitQuestionInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	msg := queue.QuestionMessage{
		SubmissionId:  uuid.NewString(),
		CategoryId:    input.CategoryId,
		QuestionText:  strings.TrimSpace(input.QuestionText),
		Option1:       strings.TrimSpace(input.Option1),
		Option2:       strings.TrimSpace(input.Option2),
		Option3:       strings.TrimSpace(input.Option3),
		Option4:       strings.TrimSpace(input.Option4),
		CorrectOption: input.CorrectOption,
	}

	// Whitespace-only fields survive the required tag but would be dropped
	// as malformed on the consumer side; reject them here, before any side
	// effect, so the caller never gets a 200 for a question that cannot land.
	if msg.QuestionText == "" || msg.Option1 == "" || msg.Option2 == "" ||
		msg.Option3 == "" || msg.Option4 == "" {
		return fiber.NewError(fiber.StatusBadRequest, "all fields are required")
	}

	// Audit trail is best-effort: a submission must not fail because the
	// store is down when its persistence path runs through the queue.
	if payload, err := json.Marshal(msg); err == nil {
		if err := ctrl.submissions.Record(c.UserContext(), msg.SubmissionId, payload); err != nil {
			ctrl.log.Warn("submission audit record failed", "submission_id", msg.SubmissionId, "error", err)
		}
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), publishTimeout)
	defer cancel()
	if err := ctrl.publisher.Publish(ctx, msg); err != nil {
		return err
	}

	ctrl.log.Info("question submitted to queue",
		"submission_id", msg.SubmissionId, "category_id", msg.CategoryId)

	return c.JSON(fiber.Map{
		"message":       "question submitted successfully",
		"submission_id": msg.SubmissionId,
	})
}

// ListCategories serves the snapshot file when present. On a cache miss it
// fetches upstream (falling back to the store), populates the snapshot and
// responds; a stale snapshot never fails the caller.
func (ctrl *SubmitController) ListCategories(c *fiber.Ctx) error {
	categories, err := ctrl.cache.Read()
	if err == nil {
		return c.JSON(categories)
	}
	if !errors.Is(err, cache.ErrNoSnapshot) {
		ctrl.log.Warn("category snapshot unreadable, refetching", "error", err)
	}

	ctx := c.UserContext()
	var fetchErr error
	if ctrl.fetch != nil {
		categories, fetchErr = ctrl.fetch(ctx)
		if fetchErr != nil {
			ctrl.log.Warn("upstream category fetch failed, using store", "error", fetchErr)
		}
	}
	if ctrl.fetch == nil || fetchErr != nil {
		categories, err = ctrl.categories.List(ctx)
		if err != nil {
			return err
		}
	}

	if err := ctrl.cache.Write(categories); err != nil {
		ctrl.log.Warn("category snapshot write failed", "error", err)
	}

	return c.JSON(categories)
}

// Submitted lists the newest persisted questions with their category names.
func (ctrl *SubmitController) Submitted(c *fiber.Ctx) error {
	questions, err := ctrl.questions.Recent(c.UserContext(), 50)
	if err != nil {
		return err
	}
	return c.JSON(questions)
}

func (ctrl *SubmitController) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "submit service is running"})
}
