package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	UserCollection          *mongo.Collection
	BookingsCollection      *mongo.Collection
	EventsCollection        *mongo.Collection
	GalleryCollection       *mongo.Collection
	ReviewsCollection       *mongo.Collection
	InventoryCollection     *mongo.Collection
	NotificationsCollection *mongo.Collection
	ChatRoomsCollection     *mongo.Collection
	ChatMessagesCollection  *mongo.Collection
	Client                  *mongo.Client
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	var err error
	Client, err = mongo.Connect(context.TODO(), options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("pizzadb")
	UserCollection = database.Collection("users")
	BookingsCollection = database.Collection("bookings")
	EventsCollection = database.Collection("events")
	GalleryCollection = database.Collection("gallery")
	ReviewsCollection = database.Collection("reviews")
	InventoryCollection = database.Collection("inventory")
	NotificationsCollection = database.Collection("notifications")
	ChatRoomsCollection = database.Collection("chat_rooms")
	ChatMessagesCollection = database.Collection("chat_messages")
}
