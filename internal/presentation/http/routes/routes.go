// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nearcart/nearcart-go/internal/application/container"
	"github.com/nearcart/nearcart-go/internal/presentation/http/handlers"
	"github.com/nearcart/nearcart-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Locally stored uploads.
	r.Static("/media", "media")

	sessionHandlers := handlers.NewSessionHandlers(c.SessionService, c.Logger)
	conversationHandlers := handlers.NewConversationHandlers(c.ConversationService, c.SearchService, c.Logger)
	uploadHandlers := handlers.NewUploadHandlers(c.AttachmentService, c.Logger)
	historyHandlers := handlers.NewHistoryHandlers(c.HistoryService, c.Logger)
	catalogHandlers := handlers.NewCatalogHandlers(c.CatalogService, c.Logger)
	dbHandlers := handlers.NewDBHandlers(c.DB, c.Logger)

	api := r.Group("/api/v1")
	{
		api.GET("/db/status", dbHandlers.GetStatus)

		customer := api.Group("/customer")
		{
			customer.POST("/sessions", sessionHandlers.PostSession)
			customer.GET("/sessions/:sessionId", sessionHandlers.GetSession)
			customer.GET("/sessions/:sessionId/history", historyHandlers.GetHistory)
			customer.GET("/sessions/:sessionId/history/export", historyHandlers.GetHistoryExport)
			customer.DELETE("/sessions/:sessionId/history", historyHandlers.DeleteHistory)

			customer.POST("/conversations", conversationHandlers.PostConversation)
			customer.GET("/conversations/:conversationId", conversationHandlers.GetConversation)
			customer.POST("/conversations/:conversationId/messages", conversationHandlers.PostMessage)

			customer.POST("/search", conversationHandlers.PostDirectSearch)
			customer.GET("/results/:requestId", conversationHandlers.GetResult)

			customer.POST("/attachments", uploadHandlers.PostAttachment)
			customer.POST("/voice", uploadHandlers.PostVoice)
		}

		catalog := api.Group("/catalog")
		{
			catalog.GET("/products", catalogHandlers.GetProducts)
			catalog.GET("/products/:id", catalogHandlers.GetProduct)
			catalog.POST("/products", catalogHandlers.PostProduct)
			catalog.PUT("/products/:id", catalogHandlers.PutProduct)
			catalog.DELETE("/products/:id", catalogHandlers.DeleteProduct)

			catalog.GET("/categories", catalogHandlers.GetCategories)
			catalog.POST("/categories", catalogHandlers.PostCategory)

			catalog.GET("/stores", catalogHandlers.GetStores)
			catalog.GET("/stores/:id", catalogHandlers.GetStore)
			catalog.POST("/stores", catalogHandlers.PostStore)
			catalog.PUT("/stores/:id", catalogHandlers.PutStore)
			catalog.DELETE("/stores/:id", catalogHandlers.DeleteStore)

			catalog.POST("/offers", catalogHandlers.PostOffer)
			catalog.PUT("/offers/:id", catalogHandlers.PutOffer)
			catalog.DELETE("/offers/:id", catalogHandlers.DeleteOffer)
		}
	}

	return r
}
