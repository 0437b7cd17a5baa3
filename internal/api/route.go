package api

import (
	v1 "github.com/Behyna/paygw/internal/api/v1"
	"github.com/Behyna/paygw/internal/service"
	"github.com/gofiber/fiber/v2"
)

const prefixV1 = "/api/v1/"

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Post(service.CheckoutPath, handler.Checkout)
	app.Get(service.CheckoutPath, handler.CheckoutPage)
	app.Get(service.ReturnPath, handler.Return)
	app.Get(service.ReferencePath, handler.Return)
	// Every method reaches the verifier so that it can reject non-POST calls itself.
	app.All(service.CallbackPath, handler.Callback)
	app.Get(prefixV1+"users/:user_id/pending-payments", handler.PendingPayments)
}
