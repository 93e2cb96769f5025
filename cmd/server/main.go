package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vastra_back_end/internal/cache"
	"vastra_back_end/internal/config"
	"vastra_back_end/internal/database"
	"vastra_back_end/internal/handlers/order"
	"vastra_back_end/internal/handlers/product"
	"vastra_back_end/internal/handlers/user"
	"vastra_back_end/internal/routes"
	"vastra_back_end/internal/services"
	"vastra_back_end/internal/store/scylla"
)

func main() {
	config.Load()

	conns, err := database.Connect()
	if err != nil {
		log.Fatalf("❌ Connexion aux bases impossible: %v", err)
	}
	defer conns.Close()

	// Stores Scylla
	catalog := scylla.NewCatalogStore(conns)
	reviewStore := scylla.NewReviewStore(conns)
	orderStore := scylla.NewOrderStore(conns)
	userStore := scylla.NewUserStore(conns)
	categoryStore := scylla.NewCategoryStore(conns)

	// Services
	mailer := services.NewMailer()
	orderService := services.NewOrderService(catalog, orderStore, mailer)
	reviewService := services.NewReviewService(catalog, reviewStore)
	searchService := services.NewSearchService(conns.Elastic)
	mediaService := services.NewMediaService(conns.MinIO)
	redisCache := cache.New(conns.Redis, catalog, userStore)

	// Handlers
	h := routes.Handlers{
		Products: product.NewHandler(catalog, categoryStore, reviewService, searchService, mediaService, redisCache),
		Users:    user.NewHandler(userStore, redisCache, conns.Redis, mailer),
		Orders:   order.NewHandler(orderService),
		Rdb:      conns.Redis,
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.RegisterRoutes(r, h)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		log.Println("🚀 Serveur Vastra lancé sur le port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Serveur HTTP: %v", err)
		}
	}()

	// Arrêt propre : on draine les requêtes avant de fermer les connexions
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Arrêt demandé, drainage des requêtes en cours...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Arrêt forcé: %v", err)
	}
	log.Println("✅ Serveur arrêté")
}
