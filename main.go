package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"padrinho_server/auth"
	"padrinho_server/config"
	"padrinho_server/logger"
	"padrinho_server/routes"
	"padrinho_server/services"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Getenv("PADRINHO_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	// Initialize DynamoDB client and service
	zl.Info("Initializing DynamoDB client", zap.String("region", cfg.AWSRegion))
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}

	// Initialize Services
	participantService := services.NewParticipantService(dynamoService, cfg.ParticipantsTable, zl)
	pairingService := services.NewPairingService(dynamoService, cfg.PairingsTable, cfg.MentorLoadTable, cfg.MentorCapacity, zl)
	matchService := services.NewMatchService(
		participantService,
		pairingService,
		services.DefaultWeights(cfg.GamesWeight),
		cfg.MentorCapacity,
		zl,
	)

	authMw := auth.NewMiddleware(cfg.JWTSecret, zl)

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Bem-vindo ao Sistema de Apadrinhamento")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	routes.RegisterParticipantRoutes(r, participantService, authMw, zl)
	routes.RegisterMatchRoutes(r, matchService, authMw, zl)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	zl.Info("Starting server", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		zl.Fatal("Server stopped", zap.Error(err))
	}
}
