package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"solar-store/models"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"

var (
	ErrProvider = errors.New("identity provider failure")
	ErrNoEmail  = errors.New("identity provider returned no email")

	// ErrIdentityConflict means the email and the Google id belong to two different accounts.
	ErrIdentityConflict = errors.New("google account already linked to another user")
)

// Profile is the subset of Google's userinfo response we rely on.
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// Google runs the authorization-code flow against Google.
type Google struct {
	Config      *oauth2.Config
	UserInfoURL string
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"email", "profile"},
		},
		UserInfoURL: googleUserInfoURL,
	}
}

func (g *Google) AuthCodeURL(state string) string {
	return g.Config.AuthCodeURL(state)
}

// FetchProfile exchanges the authorization code and reads the userinfo endpoint.
func (g *Google) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrProvider)
	}
	token, err := g.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", ErrProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	resp, err := g.Config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch userinfo: %v", ErrProvider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo status %d", ErrProvider, resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %v", ErrProvider, err)
	}
	return &p, nil
}

// SignInFederated returns the account for a Google profile. An account with the same
// email is reused and gets its Google id backfilled; failing that an account already
// linked to the Google id is reused; otherwise a customer is created. It reports
// whether a user was created.
func SignInFederated(ctx context.Context, db *gorm.DB, p *Profile) (*models.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email == "" {
		return nil, false, ErrNoEmail
	}

	var (
		user    models.User
		created bool
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).First(&user).Error
		if err == nil {
			if user.GoogleID == nil && p.ID != "" {
				var holders int64
				if err := tx.Model(&models.User{}).Where("google_id = ? AND id <> ?", p.ID, user.ID).Count(&holders).Error; err != nil {
					return err
				}
				if holders > 0 {
					return ErrIdentityConflict
				}
				user.GoogleID = &p.ID
				return tx.Model(&user).Update("google_id", p.ID).Error
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if p.ID != "" {
			err = tx.Where("google_id = ?", p.ID).First(&user).Error
			if err == nil {
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		username, err := uniqueUsername(tx, emailLocalPart(email))
		if err != nil {
			return err
		}
		user = models.User{Username: &username, Email: &email, Role: models.RoleCustomer}
		if p.ID != "" {
			user.GoogleID = &p.ID
		}
		created = true
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, false, fmt.Errorf("sign in federated user: %w", err)
	}
	return &user, created, nil
}

var usernameUnsafe = regexp.MustCompile(`[^a-z0-9._-]+`)

func emailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local, _, _ = strings.Cut(local, "+")
	local = usernameUnsafe.ReplaceAllString(strings.ToLower(local), "")
	if local == "" {
		return "user"
	}
	return local
}

const maxUsernameAttempts = 1000

// uniqueUsername returns base if it is free, otherwise base2, base3, … in order.
func uniqueUsername(tx *gorm.DB, base string) (string, error) {
	candidate := base
	for n := 2; n <= maxUsernameAttempts; n++ {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("check username: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(n)
	}
	return "", fmt.Errorf("no free username for %q", base)
}
