package httpserver

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"smart-retail-bookstore/internal/chat"
	"smart-retail-bookstore/internal/domain"
	ordersvc "smart-retail-bookstore/internal/service/order"
)

// CatalogService is the slice of the catalog service the handlers need.
type CatalogService interface {
	List(ctx context.Context, limit, offset int) ([]domain.Book, error)
	Get(ctx context.Context, id string) (*domain.Book, error)
	Search(ctx context.Context, query string) ([]domain.Book, error)
}

// OrderService answers order queries for the REST surface. Order placement
// goes through the chat session instead.
type OrderService interface {
	ListForUser(ctx context.Context, userID string) ([]ordersvc.Summary, error)
	Details(ctx context.Context, orderID, userID string) (*ordersvc.Details, error)
}

// Deps carries the wired services the router hands to handlers.
type Deps struct {
	Chat    *chat.Manager
	Catalog CatalogService
	Orders  OrderService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(allowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: allowedOrigins,
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	bot := api.Group("/chatbot")
	bot.POST("/session", openSessionHandler(deps.Chat))
	bot.DELETE("/session/:id", closeSessionHandler(deps.Chat))
	bot.POST("/session/:id/reset", resetSessionHandler(deps.Chat))
	bot.POST("/chat", chatHandler(deps.Chat))
	bot.GET("/cart", getCartHandler(deps.Chat))
	bot.POST("/cart", addToCartHandler(deps.Chat))
	bot.DELETE("/cart/:id", removeFromCartHandler(deps.Chat))
	bot.POST("/place-order", placeOrderHandler(deps.Chat))

	api.GET("/orders", listOrdersHandler(deps.Orders))
	api.GET("/orders/:order_id", orderDetailsHandler(deps.Orders))
	api.GET("/books", listBooksHandler(deps.Catalog))
	api.GET("/books/:id", getBookHandler(deps.Catalog))

	return router
}
