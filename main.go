// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"go-sweetshop/controllers"
	"go-sweetshop/models"
	"go-sweetshop/routes"
	"go-sweetshop/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// External collaborators
	emailService := utils.NewEmailService()
	imageService := utils.NewImageService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()
	utils.EnsureIndexes(client)

	sequencer := controllers.NewOrderSequencer(client, utils.DatabaseName)

	// Initialize controllers
	c := routes.Controllers{
		Users:     controllers.NewUserController(client),
		Products:  controllers.NewCatalogController(client, models.KindProduct, imageService),
		Boxes:     controllers.NewCatalogController(client, models.KindBox, imageService),
		Namkeens:  controllers.NewCatalogController(client, models.KindNamkeen, imageService),
		Enquiries: controllers.NewEnquiryController(client, emailService),
		Carts:     controllers.NewCartController(client),
		Orders:    controllers.NewOrderController(client, sequencer, emailService),
		Sawamanis: controllers.NewSawamaniController(client),
	}

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, c)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
