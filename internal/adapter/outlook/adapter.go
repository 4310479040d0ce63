package outlook

import (
	"context"
	"fmt"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/theakshaypant/opscal/internal/core"
)

// tokenCredential hands the saved OAuth2 token to the Graph SDK through the
// Azure TokenCredential interface.
type tokenCredential struct {
	adapter *OutlookAdapter
}

func (c *tokenCredential) GetToken(ctx context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	tok, err := c.adapter.currentToken(ctx)
	if err != nil {
		return azcore.AccessToken{}, err
	}
	return azcore.AccessToken{Token: tok.AccessToken, ExpiresOn: tok.Expiry}, nil
}

// OutlookAdapter reads meetings from Microsoft 365 calendars via Microsoft Graph.
type OutlookAdapter struct {
	id        string
	name      string
	color     string
	clientID  string
	tenantID  string
	tokenFile string
	selected  []string
	calendars map[string]string
	log       *logrus.Entry

	token   *oauth2.Token
	tokenMu sync.Mutex
	client  *msgraphsdk.GraphServiceClient
}

// NewOutlookAdapter creates a meeting source. An empty tenantID means "common".
func NewOutlookAdapter(id, name, clientID, tenantID, tokenFile, color string, selected []string, log *logrus.Entry) *OutlookAdapter {
	if tenantID == "" {
		tenantID = "common"
	}
	if color == "" {
		color = core.DefaultColor(core.TypeMeeting)
	}
	return &OutlookAdapter{
		id:        id,
		name:      name,
		color:     color,
		clientID:  clientID,
		tenantID:  tenantID,
		tokenFile: tokenFile,
		selected:  selected,
		calendars: make(map[string]string),
		log:       log.WithField("provider", id),
	}
}

func (o *OutlookAdapter) ID() string   { return o.id }
func (o *OutlookAdapter) Name() string { return o.name }

// OAuthConfig is the Microsoft identity platform config used by `opscal auth`.
func (o *OutlookAdapter) OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    o.clientID,
		Endpoint:    microsoft.AzureADEndpoint(o.tenantID),
		RedirectURL: "http://localhost:8085/callback",
		Scopes: []string{
			"https://graph.microsoft.com/Calendars.Read",
			"https://graph.microsoft.com/User.Read",
			"offline_access",
		},
	}
}

// Login loads the saved OAuth token and initializes the Graph SDK client.
func (o *OutlookAdapter) Login(ctx context.Context) error {
	tok, err := tokenFromFile(o.tokenFile)
	if err != nil {
		return fmt.Errorf("read token file (run 'opscal auth' first): %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("token file %s has no access token, run 'opscal auth' again", o.tokenFile)
	}
	o.token = tok

	client, err := msgraphsdk.NewGraphServiceClientWithCredentials(&tokenCredential{adapter: o}, []string{
		"https://graph.microsoft.com/.default",
	})
	if err != nil {
		return fmt.Errorf("create graph client: %w", err)
	}
	o.client = client

	result, err := o.client.Me().Calendars().Get(ctx, nil)
	if err != nil {
		return fmt.Errorf("load calendar list: %w", err)
	}
	for _, cal := range result.GetValue() {
		if id, name := cal.GetId(), cal.GetName(); id != nil && name != nil {
			o.calendars[*id] = *name
		}
	}
	return nil
}

// currentToken returns a valid token, refreshing and persisting it when expired.
func (o *OutlookAdapter) currentToken(ctx context.Context) (*oauth2.Token, error) {
	o.tokenMu.Lock()
	defer o.tokenMu.Unlock()

	if o.token.Valid() {
		return o.token, nil
	}
	fresh, err := o.OAuthConfig().TokenSource(ctx, o.token).Token()
	if err != nil {
		return nil, fmt.Errorf("token expired and refresh failed (run 'opscal auth'): %w", err)
	}
	o.token = fresh
	if err := saveToken(o.tokenFile, fresh); err != nil {
		o.log.WithError(err).Warn("could not persist refreshed token")
	}
	return fresh, nil
}

// Calendars returns the calendars on the account (ID -> name).
func (o *OutlookAdapter) Calendars() map[string]string {
	return o.calendars
}
