package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"horizon-backend/controllers"
	"horizon-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires controller instances onto the route tree.
func SetupRouter(
	rc *controllers.RoomController,
	resc *controllers.ReservationController,
	bc *controllers.BillingController,
	gc *controllers.GuestController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
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
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rooms := api.Group("/rooms")
		{
			// /available must be registered before /:id
			rooms.GET("/available", rc.GetAvailableRooms)

			rooms.GET("", rc.GetRooms)
			rooms.POST("", rc.CreateRoom)
			rooms.PATCH("/:id", rc.UpdateRoom)
			rooms.PUT("/:id", rc.UpdateRoom)
			rooms.DELETE("/:id", rc.DeleteRoom)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", controllers.GetRoomTypes)
			roomTypes.POST("", controllers.CreateRoomType)
		}

		guests := api.Group("/guests")
		{
			guests.POST("", gc.CreateGuest)
			guests.GET("/:id", gc.GetGuestByID)
		}

		reservations := api.Group("/reservations")
		{
			reservations.GET("", resc.GetReservations)
			reservations.POST("", resc.CreateReservation)
			reservations.GET("/:ref", resc.GetReservation)
			reservations.POST("/:ref/confirm", resc.ConfirmReservation)
			reservations.POST("/:ref/allocate", resc.AllocateRoom)
			reservations.POST("/:ref/checkin", resc.CheckIn)
			reservations.POST("/:ref/checkout", resc.CheckOut)
			reservations.POST("/:ref/cancel", resc.CancelReservation)
		}

		bills := api.Group("/bills")
		{
			bills.GET("/:id", bc.GetBillSummary)
			bills.POST("/:id/items", bc.AddBillItem)
			bills.POST("/:id/payments", bc.AddPayment)
			bills.POST("/:id/reopen", bc.ReopenBill)
			bills.POST("/:id/send", bc.SendBill)
			bills.GET("/:id/receipt", bc.GetReceipt)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/hotel", controllers.GetHotelSettings)
			settings.PUT("/hotel", controllers.UpdateHotelSettings)
		}
	}

	return r
}
