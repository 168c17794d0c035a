package services

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/sirupsen/logrus"

	"vk-match-bot/internal/config"
)

const (
	oauthRedirectURI = "https://oauth.vk.com/blank.html"
	oauthScope       = "photos.get,users.search,wall,likes.add"
	authQRFile       = "vk_auth_qr.png"
)

// Bootstrap acquires the user-level directory token before any dialog
// begins. It runs at most once per process: a configured token is used as-is,
// otherwise the user authorizes in a browser and pastes the redirect URL back.
type Bootstrap struct {
	cfg    config.VKConfig
	qr     *QRService
	logger *logrus.Logger
}

// NewBootstrap creates a new session bootstrap
func NewBootstrap(cfg config.VKConfig, qr *QRService, logger *logrus.Logger) *Bootstrap {
	return &Bootstrap{cfg: cfg, qr: qr, logger: logger}
}

// EnsureToken returns a valid user token, acquiring one interactively if the
// configuration does not carry it
func (b *Bootstrap) EnsureToken() (string, error) {
	if b.cfg.UserToken != "" {
		b.logger.Info("Using user token from configuration")
		return b.cfg.UserToken, nil
	}

	if b.cfg.ClientID == "" {
		return "", errors.New("no user token configured and VK_CLIENT_ID is empty")
	}

	authURL := b.AuthURL()
	b.logger.Infof("Authorize the application in a browser: %s", authURL)

	// The same URL as a QR image, for authorizing from a phone.
	if png, err := b.qr.GenerateQR(authURL); err == nil {
		if err := os.WriteFile(authQRFile, png, 0644); err != nil {
			b.logger.Warnf("Failed to write auth QR code file: %v", err)
		} else {
			b.logger.Infof("Auth QR code written to %s", authQRFile)
		}
	}

	prompt := promptui.Prompt{
		Label: "Вставьте адрес страницы после авторизации",
		Validate: func(input string) error {
			if !strings.Contains(input, "#access_token=") {
				return errors.New("адрес должен содержать access_token")
			}
			return nil
		},
	}

	redirectURL, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("token prompt failed: %w", err)
	}

	token := ExtractToken(redirectURL)
	if token == "" {
		return "", errors.New("no access token found in pasted URL")
	}

	b.logger.Info("User token acquired")
	return token, nil
}

// AuthURL builds the OAuth implicit-flow authorization URL
func (b *Bootstrap) AuthURL() string {
	return fmt.Sprintf(
		"https://oauth.vk.com/authorize?client_id=%s&display=page&redirect_uri=%s&scope=%s&response_type=token&v=%s",
		b.cfg.ClientID, oauthRedirectURI, oauthScope, b.cfg.APIVersion)
}

// ExtractToken pulls the access token out of the OAuth redirect URL fragment
func ExtractToken(redirectURL string) string {
	_, fragment, found := strings.Cut(redirectURL, "#access_token=")
	if !found {
		return ""
	}
	token, _, _ := strings.Cut(fragment, "&")
	return token
}
