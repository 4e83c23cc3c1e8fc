package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/firestore"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// NewFirestoreClient opens a Firestore client for projectID. With a credentials file
// the service account key is used; otherwise application default credentials apply.
// FIRESTORE_EMULATOR_HOST is honoured by the client library itself.
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore project id cannot be empty")
	}

	var opts []option.ClientOption
	if credentialsFile != "" && os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		raw, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read firestore credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, raw, "https://www.googleapis.com/auth/datastore")
		if err != nil {
			return nil, fmt.Errorf("failed to parse firestore credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	slog.Info("Firestore client created.", slog.String("project_id", projectID))
	return client, nil
}

// CloseFirestoreClient closes the Firestore client.
func CloseFirestoreClient(client *firestore.Client) {
	if client != nil {
		if err := client.Close(); err != nil {
			slog.Warn("Error closing firestore client", slog.String("error", err.Error()))
			return
		}
		slog.Info("Firestore client closed.")
	}
}
