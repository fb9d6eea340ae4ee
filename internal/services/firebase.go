// ===============================
// internal/services/firebase.go - Firebase Token Verification
// ===============================

package services

import (
	"context"

	"videotube/internal/config"
	"videotube/internal/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseService struct {
	app        *firebase.App
	authClient *auth.Client
}

// NewFirebaseService creates and initializes a new Firebase service
func NewFirebaseService(ctx context.Context, cfg *config.Config) (*FirebaseService, error) {
	var opts []option.ClientOption
	if cfg.FirebaseCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentials))
	}

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID: cfg.FirebaseProjectID,
	}, opts...)
	if err != nil {
		return nil, err
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, err
	}

	return &FirebaseService{
		app:        firebaseApp,
		authClient: authClient,
	}, nil
}

// VerifyIDToken verifies a Firebase ID token and returns the caller identity
func (fs *FirebaseService) VerifyIDToken(ctx context.Context, idToken string) (*models.AuthIdentity, error) {
	token, err := fs.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return IdentityFromToken(token), nil
}

// IdentityFromToken reads the standard profile claims
func IdentityFromToken(token *auth.Token) *models.AuthIdentity {
	identity := &models.AuthIdentity{UID: token.UID}
	if v, ok := token.Claims["email"].(string); ok {
		identity.Email = v
	}
	if v, ok := token.Claims["name"].(string); ok {
		identity.Name = v
	}
	if v, ok := token.Claims["picture"].(string); ok {
		identity.Picture = v
	}
	return identity
}
