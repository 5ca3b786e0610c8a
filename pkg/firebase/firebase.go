package firebase

import (
	"context"
	"fmt"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// Identity is the verified profile behind a Google ID token
type Identity struct {
	UID        string
	Email      string
	GivenName  string
	FamilyName string
	Picture    string
}

// InitFirebase initializes the Firebase application and authentication client
func InitFirebase(ctx context.Context, credentialsPath string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)
	firebaseApp, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}

// VerifyIDToken checks a Google sign-in credential and extracts the profile
func (a *App) VerifyIDToken(ctx context.Context, idToken string) (*Identity, error) {
	token, err := a.AuthClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return identityFromClaims(token.UID, token.Claims)
}

func identityFromClaims(uid string, claims map[string]interface{}) (*Identity, error) {
	str := func(key string) string {
		v, _ := claims[key].(string)
		return v
	}
	id := &Identity{
		UID:        uid,
		Email:      str("email"),
		GivenName:  str("given_name"),
		FamilyName: str("family_name"),
		Picture:    str("picture"),
	}
	if id.Email == "" {
		return nil, fmt.Errorf("token has no email claim")
	}
	if id.GivenName == "" {
		name := strings.Fields(str("name"))
		if len(name) > 0 {
			id.GivenName = name[0]
			id.FamilyName = strings.Join(name[1:], " ")
		}
	}
	return id, nil
}
