package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"tripsmith/cmd/fx/archive_fx"
	"tripsmith/cmd/fx/cache_fx"
	"tripsmith/cmd/fx/controllers_fx"
	"tripsmith/cmd/fx/engine_fx"
	"tripsmith/cmd/fx/planner_fx"
	"tripsmith/cmd/fx/session_fx"
	"tripsmith/internal/api/controllers"
	"tripsmith/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := fx.New(
		engine_fx.Module,
		session_fx.Module,
		cache_fx.Module,
		archive_fx.Module,
		planner_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	planController *controllers.PlanController,
	confirmationController *controllers.ConfirmationController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.Default())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, planController, confirmationController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	planController *controllers.PlanController,
	confirmationController *controllers.ConfirmationController) {

	limiter := middleware.NewClientLimiter(1, 3)

	plans := r.Group("/plans")
	plans.POST("", middleware.RateLimitMiddleware(limiter), planController.CreatePlan)
	plans.GET("/:sessionId", confirmationController.GetSession)
	plans.POST("/:sessionId/confirm", confirmationController.Confirm)
	plans.POST("/:sessionId/final-approval", confirmationController.FinalApprove)
}
