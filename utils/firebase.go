// utils/firebase.go
package utils

import (
	"context"
	"log"

	"pocketclass/config"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	FirebaseApp     *firebase.App
	FCMClient       *messaging.Client
	FirestoreClient *firestore.Client
)

// FirebaseInit initializes the Firebase App and Messaging client. The Firestore
// client is only opened when it is the configured document store.
func FirebaseInit() {
	ctx := context.Background()

	var opts []option.ClientOption
	if config.AppConfig.GoogleCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.AppConfig.GoogleCredentialsFile))
	}
	var fbConfig *firebase.Config
	if config.AppConfig.FirebaseProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}
	FirebaseApp = app

	client, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}
	FCMClient = client

	if config.AppConfig.DocumentStore == "firestore" {
		fs, err := app.Firestore(ctx)
		if err != nil {
			log.Fatalf("firebase: error getting Firestore client: %v", err)
		}
		FirestoreClient = fs
	}
}
