package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/oauth2"

	"github.com/theakshaypant/opscal/internal/util"
)

const (
	redirectPort = "8085"
	redirectURL  = "http://localhost:" + redirectPort + "/callback"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authenticate with your meeting calendar provider",
	Long: `Authenticate with the meeting source using OAuth.

  1. Starts a local server to receive the OAuth callback
  2. Opens your browser to sign in with Google or Microsoft
  3. Saves the token to meetings.token_file

The provider is taken from meetings.provider (google|outlook). ICS feeds
need no authentication.`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)
}

func runAuth(cmd *cobra.Command, _ []string) error {
	var (
		config       *oauth2.Config
		providerName string
		authOpts     []oauth2.AuthCodeOption
	)

	switch p := viper.GetString("meetings.provider"); p {
	case "google":
		src, err := newGoogleSource()
		if err != nil {
			return err
		}
		if config, err = src.OAuthConfig(); err != nil {
			return err
		}
		providerName = "Google"
		authOpts = []oauth2.AuthCodeOption{oauth2.AccessTypeOffline, oauth2.ApprovalForce}
	case "outlook":
		src, err := newOutlookSource()
		if err != nil {
			return err
		}
		config = src.OAuthConfig()
		providerName = "Microsoft"
		authOpts = []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("prompt", "consent")}
	case "ics":
		fmt.Fprintln(cmd.OutOrStdout(), "ICS feeds need no authentication.")
		return nil
	default:
		return fmt.Errorf("unknown meetings provider: %q (supported: google, outlook)", p)
	}
	config.RedirectURL = redirectURL

	tok, err := getTokenViaLocalServer(cmd.Context(), config, providerName, authOpts...)
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}

	tokenFile := expandPath(viper.GetString("meetings.token_file"))
	if err := saveToken(tokenFile, tok); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	fmt.Println("\n✅ Authentication successful!")
	fmt.Printf("📁 Token saved to %s\n", tokenFile)
	fmt.Println("\nMeetings will now be merged into 'opscal' when the meeting type is shown.")
	return nil
}

func getTokenViaLocalServer(ctx context.Context, config *oauth2.Config, providerName string, authOpts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errMsg := r.URL.Query().Get("error")
			http.Error(w, "Authorization failed: "+errMsg, http.StatusBadRequest)
			errChan <- fmt.Errorf("authorization failed: %s", errMsg)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Authorization Successful</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 20vh;">
	<h1>Authorization Successful</h1>
	<p>You can close this window and return to the terminal.</p>
</body>
</html>`)
		codeChan <- code
	})
	server := &http.Server{Addr: ":" + redirectPort, Handler: mux}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL("state-token", authOpts...)

	fmt.Printf("🔐 Opening browser for %s authorization...\n\n", providerName)
	if err := openBrowser(authURL); err != nil {
		fmt.Println("⚠️  Couldn't open browser automatically.")
		fmt.Println("   Please open this URL manually:")
		fmt.Println(authURL)
	}
	fmt.Println("⏳ Waiting for authorization...")

	var code string
	select {
	case code = <-codeChan:
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("timeout waiting for authorization")
	}

	tok, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return tok, nil
}

func openBrowser(url string) error {
	cmd, err := util.BrowserCommand(url)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
