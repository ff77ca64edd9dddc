package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// CallbackAddr is where the interactive flow listens for the redirect.
const CallbackAddr = "localhost:8080"

const authTimeout = 5 * time.Minute

// OAuth2Config holds OAuth2 configuration.
type OAuth2Config struct {
	ClientID     string
	ClientSecret string
	TokenFile    string // Where to save the token
}

func (c OAuth2Config) oauth() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "http://" + CallbackAddr + "/callback",
		Scopes:       []string{sheets.SpreadsheetsScope},
	}
}

// AuthURL is the consent page URL. Offline access makes Google issue a
// refresh token.
func (c OAuth2Config) AuthURL() string {
	return c.oauth().AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// AuthenticateOAuth2Interactive performs the OAuth2 flow interactively. The
// resulting token carries the refresh token to put in the configuration.
func AuthenticateOAuth2Interactive(ctx context.Context, config OAuth2Config, logger *slog.Logger) (*oauth2.Token, error) {
	if logger == nil {
		logger = slog.Default()
	}
	oauthConfig := config.oauth()

	codeChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errorChan <- errors.New("no authorization code received")
			_, _ = fmt.Fprint(w, `<html><body><h1>Authentication Failed</h1><p>No authorization code received. Please try again.</p></body></html>`)
			return
		}
		codeChan <- code
		_, _ = fmt.Fprint(w, `<html><body><h1>Authentication Successful!</h1><p>You can close this window and return to the terminal.</p></body></html>`)
	})
	server := &http.Server{Addr: CallbackAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errorChan <- fmt.Errorf("failed to start callback server: %w", err)
		}
	}()

	authURL := config.AuthURL()

	logger.Info("Google Sheets authentication required")
	logger.Info("Please visit this URL to authenticate", "url", authURL)

	var authCode string
	select {
	case authCode = <-codeChan:
		logger.Info("Received authorization code")
	case err := <-errorChan:
		_ = server.Shutdown(ctx)
		return nil, err
	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		_ = server.Shutdown(ctx)
		return nil, fmt.Errorf("authentication timeout - no response received within %s", authTimeout)
	}

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("Error shutting down callback server", "error", err)
	}

	token, err := oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if config.TokenFile != "" {
		if err := saveToken(config.TokenFile, token); err != nil {
			logger.Warn("Failed to save token to file", "error", err, "file", config.TokenFile)
		} else {
			logger.Info("Token saved", "file", config.TokenFile)
		}
	}

	return token, nil
}

// LoadToken loads a token from file.
func LoadToken(tokenFile string) (*oauth2.Token, error) {
	f, err := os.Open(tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	return nil
}
