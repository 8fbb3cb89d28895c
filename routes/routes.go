package routes

import (
	"net/http"
	"time"

	"hotel-frontdesk/access"
	"hotel-frontdesk/controllers"
	"hotel-frontdesk/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles what the router needs.
type Handlers struct {
	Auth     *controllers.AuthController
	Rooms    *controllers.RoomController
	Guests   *controllers.GuestController
	Shifts   *controllers.ShiftController
	Roles    *controllers.RoleController
	Settings *controllers.SettingsController

	Table       *access.Table
	JWTSecret   string
	CorsOrigins []string
}

func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())

	origins := h.CorsOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	can := func(op string) gin.HandlerFunc {
		return middleware.RequirePermission(h.Table, op)
	}

	api := r.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	secured := api.Group("")
	secured.Use(middleware.JWTAuth(h.JWTSecret))
	{
		rooms := secured.Group("/rooms")
		{
			rooms.GET("", can(access.RoomView), h.Rooms.GetRooms)
			rooms.GET("/:id", can(access.RoomView), h.Rooms.GetRoom)
			rooms.GET("/:id/can-transition", can(access.RoomView), h.Rooms.CanTransition)
			rooms.POST("", can(access.RoomCreate), h.Rooms.CreateRoom)
			rooms.PUT("/:id", can(access.RoomEdit), h.Rooms.UpdateRoom)
			rooms.PATCH("/:id", can(access.RoomEdit), h.Rooms.UpdateRoom)
			rooms.PATCH("/:id/status", can(access.RoomEditStatus), h.Rooms.UpdateRoomStatus)
			rooms.DELETE("/:id", can(access.RoomDelete), h.Rooms.DeleteRoom)
		}

		guests := secured.Group("/guests")
		{
			guests.GET("", can(access.GuestView), h.Guests.GetGuests)
			guests.GET("/:id", can(access.GuestView), h.Guests.GetGuest)
			guests.POST("", can(access.GuestCheckIn), h.Guests.CheckIn)
			guests.POST("/:id/bill-preview", can(access.BillPreview), h.Guests.PreviewBill)
			guests.POST("/:id/checkout", can(access.GuestCheckout), h.Guests.Checkout)
			guests.PATCH("/:id/notes", can(access.GuestNotes), h.Guests.UpdateNotes)
			guests.GET("/:id/invoice.pdf", can(access.BillInvoice), h.Guests.Invoice)
		}

		shifts := secured.Group("/shifts")
		{
			shifts.GET("", can(access.GuestView), h.Shifts.GetShifts)
			shifts.POST("", can(access.GuestShift), h.Shifts.CreateShift)
		}

		secured.GET("/roles", can(access.RolesView), h.Roles.GetRoles)
		secured.PUT("/roles/:id/permissions", can(access.RolesEdit), h.Roles.UpdateRolePermissions)

		secured.GET("/settings/hotel", h.Settings.GetHotelSettings)
		secured.PUT("/settings/hotel", can(access.SettingsEdit), h.Settings.UpdateHotelSettings)
	}

	return r
}
