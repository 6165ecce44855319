package controllers_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"quizhub-backend/cache"
	"quizhub-backend/controllers"
	"quizhub-backend/models"
	"quizhub-backend/queue"
	"quizhub-backend/routes"
	"quizhub-backend/store"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type fakePublisher struct {
	err  error
	msgs []queue.QuestionMessage
}

func (f *fakePublisher) Publish(ctx context.Context, msg queue.QuestionMessage) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

type fakeRefresher struct {
	triggers int
}

func (f *fakeRefresher) Trigger() { f.triggers++ }

type submitFixture struct {
	db        *gorm.DB
	app       *fiber.App
	publisher *fakePublisher
	refresher *fakeRefresher
	cachePath string
}

func newSubmitFixture(t *testing.T, fetch cache.FetchFunc) *submitFixture {
	t.Helper()

	db := testDB(t)
	publisher := &fakePublisher{}
	refresher := &fakeRefresher{}
	cachePath := filepath.Join(t.TempDir(), "categories.json")

	ctrl := controllers.NewSubmitController(controllers.SubmitDeps{
		Categories:  store.NewCategoryStore(db),
		Questions:   store.NewQuestionStore(db),
		Submissions: store.NewSubmissionStore(db),
		Publisher:   publisher,
		Cache:       cache.NewFileCache(cachePath),
		Refresher:   refresher,
		Fetch:       fetch,
		Log:         testLogger(),
	})

	app := newApp(func(a *fiber.App) { routes.RegisterSubmit(a, ctrl) })
	return &submitFixture{db: db, app: app, publisher: publisher, refresher: refresher, cachePath: cachePath}
}

func validSubmission() map[string]any {
	return map[string]any{
		"category_id":    1,
		"question_text":  "2+2?",
		"option_1":       "3",
		"option_2":       "4",
		"option_3":       "5",
		"option_4":       "6",
		"correct_option": "2",
	}
}

func TestSubmitQuestion_PublishesToQueue(t *testing.T) {
	t.Parallel()

	fx := newSubmitFixture(t, nil)

	resp := doJSON(t, fx.app, fiber.MethodPost, "/submit", validSubmission())
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Message      string `json:"message"`
		SubmissionId string `json:"submission_id"`
	}
	decodeBody(t, resp, &body)
	if body.SubmissionId == "" {
		t.Fatalf("response carries no submission id")
	}

	if len(fx.publisher.msgs) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(fx.publisher.msgs))
	}
	msg := fx.publisher.msgs[0]
	if msg.SubmissionId != body.SubmissionId {
		t.Fatalf("published id %s does not match response %s", msg.SubmissionId, body.SubmissionId)
	}
	if msg.QuestionText != "2+2?" || msg.CategoryId != 1 || msg.CorrectOption != "2" || msg.Option2 != "4" {
		t.Fatalf("published message does not match submission: %+v", msg)
	}

	// The audit trail keeps the raw payload under the same id.
	var audit models.Submission
	if err := fx.db.Where("submission_id = ?", body.SubmissionId).First(&audit).Error; err != nil {
		t.Fatalf("audit record missing: %v", err)
	}
}

func TestSubmitQuestion_MissingFieldRejectedBeforePublish(t *testing.T) {
	t.Parallel()

	fx := newSubmitFixture(t, nil)

	payload := validSubmission()
	delete(payload, "option_2")

	resp := doJSON(t, fx.app, fiber.MethodPost, "/submit", payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if len(fx.publisher.msgs) != 0 {
		t.Fatalf("invalid submission reached the queue")
	}
}

func TestSubmitQuestion_WhitespaceOnlyFieldRejectedBeforePublish(t *testing.T) {
	t.Parallel()

	fx := newSubmitFixture(t, nil)

	payload := validSubmission()
	payload["option_2"] = "   "

	resp := doJSON(t, fx.app, fiber.MethodPost, "/submit", payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for whitespace-only field, got %d", resp.StatusCode)
	}
	if len(fx.publisher.msgs) != 0 {
		t.Fatalf("whitespace-only submission reached the queue")
	}

	// Rejected before any side effect: no audit row either.
	var count int64
	if err := fx.db.Model(&models.Submission{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rejected submission left an audit record")
	}
}

func TestSubmitQuestion_InvalidCorrectOptionToken(t *testing.T) {
	t.Parallel()

	fx := newSubmitFixture(t, nil)

	payload := validSubmission()
	payload["correct_option"] = "5"

	resp := doJSON(t, fx.app, fiber.MethodPost, "/submit", payload)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range token, got %d", resp.StatusCode)
	}
}

func TestSubmitQuestion_QueueUnavailableMapsTo503(t *testing.T) {
	t.Parallel()

	fx := newSubmitFixture(t, nil)
	fx.publisher.err = queue.ErrQueueUnavailable

	resp := doJSON(t, fx.app, fiber.MethodPost, "/submit", validSubmission())
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 while disconnected, got %d", resp.StatusCode)
	}
}

func TestAddCategory_InsertsAndTriggersRefresh(t *testing.T) {
	t.Parallel()

	fx := newSubmitFixture(t, nil)

	resp := doJSON(t, fx.app, fiber.MethodPost, "/add-category", map[string]any{"name": "Science"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		CategoryId uint `json:"category_id"`
	}
	decodeBody(t, resp, &body)
	if body.CategoryId == 0 {
		t.Fatalf("no category id assigned")
	}

	if fx.refresher.triggers != 1 {
		t.Fatalf("expected 1 cache refresh trigger, got %d", fx.refresher.triggers)
	}

	var stored models.Category
	if err := fx.db.First(&stored, body.CategoryId).Error; err != nil {
		t.Fatalf("category not persisted: %v", err)
	}
	if stored.Name != "Science" {
		t.Fatalf("stored name %q", stored.Name)
	}
}

func TestAddCategory_EmptyNameRejected(t *testing.T) {
	t.Parallel()

	fx := newSubmitFixture(t, nil)

	for _, name := range []string{"", "   "} {
		resp := doJSON(t, fx.app, fiber.MethodPost, "/add-category", map[string]any{"name": name})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("name %q: expected 400, got %d", name, resp.StatusCode)
		}
	}
	if fx.refresher.triggers != 0 {
		t.Fatalf("rejected category still triggered a refresh")
	}
}

func TestListCategories_PopulatesCacheOnceOnMiss(t *testing.T) {
	t.Parallel()

	fetchCalls := 0
	fetch := func(ctx context.Context) ([]models.Category, error) {
		fetchCalls++
		return []models.Category{{Id: 1, Name: "Science"}}, nil
	}
	fx := newSubmitFixture(t, fetch)

	resp := doJSON(t, fx.app, fiber.MethodGet, "/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got []models.Category
	decodeBody(t, resp, &got)
	if len(got) != 1 || got[0].Name != "Science" {
		t.Fatalf("unexpected categories: %+v", got)
	}
	if fetchCalls != 1 {
		t.Fatalf("expected exactly 1 upstream fetch, got %d", fetchCalls)
	}
	if _, err := os.Stat(fx.cachePath); err != nil {
		t.Fatalf("snapshot not populated: %v", err)
	}

	// Second call must be served from the snapshot.
	resp = doJSON(t, fx.app, fiber.MethodGet, "/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if fetchCalls != 1 {
		t.Fatalf("cached call hit upstream again (%d fetches)", fetchCalls)
	}
}

func TestListCategories_FallsBackToStoreWhenUpstreamFails(t *testing.T) {
	t.Parallel()

	fetch := func(ctx context.Context) ([]models.Category, error) {
		return nil, context.DeadlineExceeded
	}
	fx := newSubmitFixture(t, fetch)

	if err := fx.db.Create(&models.Category{Name: "History"}).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp := doJSON(t, fx.app, fiber.MethodGet, "/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got []models.Category
	decodeBody(t, resp, &got)
	if len(got) != 1 || got[0].Name != "History" {
		t.Fatalf("store fallback not used: %+v", got)
	}
}

func TestAddCategoryThenList_RoundTrip(t *testing.T) {
	t.Parallel()

	fx := newSubmitFixture(t, nil)

	resp := doJSON(t, fx.app, fiber.MethodPost, "/add-category", map[string]any{"name": "Science"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add-category: %d", resp.StatusCode)
	}
	var created struct {
		CategoryId uint `json:"category_id"`
	}
	decodeBody(t, resp, &created)

	resp = doJSON(t, fx.app, fiber.MethodGet, "/categories", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("categories: %d", resp.StatusCode)
	}
	var got []models.Category
	decodeBody(t, resp, &got)
	if len(got) != 1 || got[0].Id != created.CategoryId || got[0].Name != "Science" {
		t.Fatalf("added category not listed: %+v", got)
	}
}

func TestSubmitHealth(t *testing.T) {
	t.Parallel()

	fx := newSubmitFixture(t, nil)
	resp := doJSON(t, fx.app, fiber.MethodGet, "/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
