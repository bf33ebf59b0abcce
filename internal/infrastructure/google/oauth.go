package google

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

var Scopes = []string{
	drive.DriveReadonlyScope,
	googleoauth2.UserinfoEmailScope,
	googleoauth2.UserinfoProfileScope,
	googleoauth2.OpenIDScope,
}

type Profile struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

type OAuth struct {
	cfg *oauth2.Config
	// opts are appended to every userinfo client; tests point them at a fake server.
	opts []option.ClientOption
}

func NewOAuth(clientID, clientSecret, redirectURL string, opts ...option.ClientOption) *OAuth {
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     googleauth.Endpoint,
			Scopes:       Scopes,
		},
		opts: opts,
	}
}

// AuthURL returns the consent URL. Offline access and forced consent make
// Google issue a refresh token on every login.
func (o *OAuth) AuthURL(state string) string {
	return o.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (o *OAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth exchange: %w", err)
	}
	return tok, nil
}

func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("oauth refresh: no refresh token")
	}
	tok, err := o.cfg.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("oauth refresh: %w", err)
	}
	return tok, nil
}

func (o *OAuth) UserInfo(ctx context.Context, tok *oauth2.Token) (*Profile, error) {
	opts := append([]option.ClientOption{option.WithTokenSource(oauth2.StaticTokenSource(tok))}, o.opts...)
	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", mapError(err))
	}
	if info.Id == "" || info.Email == "" {
		return nil, fmt.Errorf("userinfo: profile lacks id or email")
	}

	return &Profile{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
