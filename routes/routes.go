package routes

import (
	"net/http"

	"pablospizza/auth"
	"pablospizza/availability"
	"pablospizza/bookings"
	"pablospizza/chat"
	"pablospizza/events"
	"pablospizza/gallery"
	"pablospizza/inventory"
	"pablospizza/middleware"
	"pablospizza/notifications"
	"pablospizza/ratelim"
	"pablospizza/reports"
	"pablospizza/reviews"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/uploads/gallery/*filepath", http.Dir("uploads/gallery"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/refresh", rl.Limit(auth.Refresh))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/register", middleware.Authenticate(auth.Register))
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/bookings", rl.Limit(bookings.CreateBooking))
	router.GET("/api/bookings", middleware.Authenticate(bookings.GetBookings))
	router.GET("/api/bookings/:id", middleware.Authenticate(bookings.GetBooking))
	router.PUT("/api/bookings/:id", middleware.Authenticate(bookings.UpdateBooking))
	router.DELETE("/api/bookings/:id", middleware.Authenticate(bookings.CancelBooking))
	router.GET("/api/bookings/:id/confirmation", rl.Limit(bookings.ConfirmationPDF))
	router.GET("/api/calendar/:year/:month", rl.Limit(bookings.GetCalendar))

	router.GET("/api/availability", rl.Limit(availability.CheckAvailability))
}

func AddEventsRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/events", middleware.Authenticate(events.CreateEvent))
	router.GET("/api/events", middleware.Authenticate(events.GetEvents))
	router.GET("/api/events/:id", middleware.Authenticate(events.GetEvent))
	router.PUT("/api/events/:id/financials", middleware.Authenticate(events.UpdateFinancials))
}

func AddGalleryRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/gallery", rl.Limit(gallery.GetImages))
	router.POST("/api/gallery", middleware.Authenticate(gallery.UploadImage))
	router.PUT("/api/gallery/:id", middleware.Authenticate(gallery.UpdateImage))
	router.DELETE("/api/gallery/:id", middleware.Authenticate(gallery.DeleteImage))
}

func AddReviewRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/reviews", rl.Limit(reviews.CreateReview))
	router.GET("/api/reviews", rl.Limit(reviews.GetReviews))
	router.GET("/api/reviews/stats", rl.Limit(reviews.GetStats))
	router.PUT("/api/reviews/:id/approve", middleware.Authenticate(reviews.ApproveReview))
	router.DELETE("/api/reviews/:id", middleware.Authenticate(reviews.DeleteReview))
}

func AddInventoryRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/inventory", middleware.Authenticate(inventory.CreateItem))
	router.GET("/api/inventory", middleware.Authenticate(inventory.GetItems))
	router.PUT("/api/inventory/:id", middleware.Authenticate(inventory.UpdateItem))
	router.PUT("/api/inventory/:id/stock", middleware.Authenticate(inventory.UpdateStock))
	router.DELETE("/api/inventory/:id", middleware.Authenticate(inventory.DeleteItem))
}

func AddReportRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/reports/monthly", middleware.Authenticate(reports.GetMonthlyReport))
	router.GET("/api/reports/monthly/pdf", middleware.Authenticate(reports.ExportMonthlyPDF))
	router.GET("/api/reports/annual", middleware.Authenticate(reports.GetAnnualReport))
	router.GET("/api/reports/dashboard", middleware.Authenticate(reports.GetDashboard))
	router.GET("/api/reports/top-clients", middleware.Authenticate(reports.GetTopClients))
}

func AddNotificationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/notifications", middleware.Authenticate(notifications.GetNotifications))
	router.POST("/api/notifications/send", middleware.Authenticate(notifications.SendNotification))
}

func AddChatRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *chat.Handlers) {
	router.POST("/api/chat/rooms", rl.Limit(h.CreateRoom))
	router.GET("/api/chat/rooms", middleware.Authenticate(h.GetRooms))
	router.GET("/api/chat/rooms/:roomid/messages", rl.Limit(h.GetMessages))
	router.POST("/api/chat/rooms/:roomid/messages", rl.Limit(h.SendMessage))
	router.PUT("/api/chat/rooms/:roomid/close", middleware.Authenticate(h.CloseRoom))
	router.GET("/api/chat/rooms/:roomid/status", rl.Limit(h.RoomStatus))

	router.GET("/api/chat/ws/:roomid", h.WebSocketHandler)
	router.GET("/api/chat/admin/ws", middleware.Authenticate(h.AdminWebSocketHandler))
}

func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, chatHandlers *chat.Handlers) {
	AddStaticRoutes(router)
	AddAuthRoutes(router, rl)
	AddBookingRoutes(router, rl)
	AddEventsRoutes(router, rl)
	AddGalleryRoutes(router, rl)
	AddReviewRoutes(router, rl)
	AddInventoryRoutes(router, rl)
	AddReportRoutes(router, rl)
	AddNotificationRoutes(router, rl)
	AddChatRoutes(router, rl, chatHandlers)
}
