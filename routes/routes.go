package routes

import (
	"github.com/gofiber/fiber/v2"

	"quizhub-backend/controllers"
)

// RegisterSubmit wires the submit service's HTTP routes.
func RegisterSubmit(app *fiber.App, ctrl *controllers.SubmitController) {
	app.Get("/categories", ctrl.ListCategories)
	app.Post("/add-category", ctrl.AddCategory)
	app.Post("/submit", ctrl.SubmitQuestion)
	app.Get("/submitted", ctrl.Submitted)
	app.Get("/health", ctrl.Health)
}

// RegisterQuestion wires the question service's HTTP routes.
func RegisterQuestion(app *fiber.App, ctrl *controllers.QuestionController) {
	app.Get("/question", ctrl.GetQuestions)
	app.Get("/question/:category", ctrl.GetQuestions)
	app.Get("/categories", ctrl.GetCategories)
	app.Post("/submit-answer", ctrl.SubmitAnswer)
	app.Get("/health", ctrl.Health)
}
