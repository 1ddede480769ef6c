package main

import (
	"context"
	"log"

	"Aarogyam/config"
	"Aarogyam/controllers"
	"Aarogyam/jobs"
	"Aarogyam/routes"
	"Aarogyam/services"
	"Aarogyam/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	run()
}

func run() {
	config.LoadEnv()

	client, db, err := config.ConnectMongo(context.Background())
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	redisClient := config.ConnectRedis()

	mongoStore := store.NewMongo(client, db, config.AtomicFanout())
	sessions := store.NewRedisSessions(redisClient)
	cache := store.NewRedisCache(redisClient)

	files := services.NewFileStore(config.UploadDir())
	auth := services.NewAuthService(mongoStore, sessions, config.JWTSecret(), config.SessionTTL)
	appointments := services.NewAppointmentService(mongoStore, config.MeetBaseURL())
	queries := services.NewQueryService(mongoStore, cache)
	certificates := services.NewCertificateService(mongoStore, config.CertificateDir())

	handlers := controllers.New(auth, appointments, queries, certificates, files)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	routes.Routes(r, handlers)

	scheduler := jobs.NewScheduler(mongoStore, cache)
	scheduler.StartDailyScheduler()

	log.Println("Server is running on http://localhost:" + config.Port())
	if err := r.Run(":" + config.Port()); err != nil {
		log.Fatal("Server error: ", err)
	}
}
