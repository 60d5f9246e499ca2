package config

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/HSouheill/webinar_backend/logging"
)

// Firebase holds the clients the API needs from the Admin SDK
type Firebase struct {
	App       *firebase.App
	Auth      *auth.Client
	Firestore *firestore.Client
	Messaging *messaging.Client
}

// InitFirebase initializes the Firebase Admin SDK and its Auth, Firestore and
// Messaging clients.
func InitFirebase(ctx context.Context) (*Firebase, error) {
	opt, err := firebaseCredentials()
	if err != nil {
		return nil, err
	}

	cfg := &firebase.Config{
		ProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
	}

	app, err := firebase.NewApp(ctx, cfg, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase auth: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing firestore: %w", err)
	}

	// Push notifications are optional
	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		logging.Warn("Firebase messaging unavailable, push notifications disabled", "error", err)
		messagingClient = nil
	}

	return &Firebase{
		App:       app,
		Auth:      authClient,
		Firestore: firestoreClient,
		Messaging: messagingClient,
	}, nil
}

// Close releases the Firestore connection
func (f *Firebase) Close() {
	if f != nil && f.Firestore != nil {
		f.Firestore.Close()
	}
}

func firebaseCredentials() (option.ClientOption, error) {
	// Base64 encoded credentials take precedence
	if base64Creds := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); base64Creds != "" {
		logging.Info("Using Firebase credentials from base64 environment variable")
		decoded, err := base64.StdEncoding.DecodeString(base64Creds)
		if err != nil {
			return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
		}
		return option.WithCredentialsJSON(decoded), nil
	}

	credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	if credFile == "" {
		possiblePaths := []string{
			"firebase-adminsdk.json",
			"../firebase-adminsdk.json",
		}
		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				credFile = path
				break
			}
		}
		if credFile == "" {
			return nil, fmt.Errorf("firebase service account not found: set GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_CREDENTIALS_BASE64, or place the file in one of %v", possiblePaths)
		}
	}

	logging.Info("Using Firebase credentials file", "path", credFile)
	return option.WithCredentialsFile(credFile), nil
}
