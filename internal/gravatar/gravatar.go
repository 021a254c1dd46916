// Package gravatar builds avatar links for kick and comment authors.
package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/kickit-app/kickit/internal/config"
	"github.com/kickit-app/kickit/pkg/kickit"
)

const baseURL = "https://www.gravatar.com/avatar/"

var (
	defaultImages = map[string]bool{
		"404": true, "mp": true, "identicon": true, "monsterid": true,
		"wavatar": true, "retro": true, "robohash": true, "blank": true,
	}
	ratings = map[string]bool{"g": true, "pg": true, "r": true, "x": true}
)

// Avatar is what the templates need to draw an author badge.
type Avatar struct {
	URL      string
	Initials string
	Name     string
}

// For returns the avatar of user. URL is empty when gravatar is disabled or
// the API did not expose an email address; templates then fall back to the
// initials.
func For(user kickit.User, cfg *config.GravatarConfig) Avatar {
	name := user.DisplayName()
	return Avatar{
		URL:      URL(user.Email, cfg),
		Initials: Initials(name),
		Name:     name,
	}
}

// URL returns the gravatar link for email, or "" if disabled.
func URL(email string, cfg *config.GravatarConfig) string {
	if cfg == nil || !cfg.Enabled {
		return ""
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(email))
	link := baseURL + hex.EncodeToString(sum[:])

	params := url.Values{}
	if cfg.DefaultImage != "" {
		params.Set("d", cfg.DefaultImage)
	}
	if cfg.Rating != "" {
		params.Set("r", cfg.Rating)
	}
	if cfg.Size > 0 {
		params.Set("s", strconv.Itoa(cfg.Size))
	}
	if len(params) > 0 {
		link += "?" + params.Encode()
	}
	return link
}

// Initials returns up to two upper case initials of name.
func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				initials = append(initials, unicode.ToUpper(r))
				break
			}
		}
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "?"
	}
	return string(initials)
}

// Validate checks the gravatar options against what the service accepts.
func Validate(cfg *config.GravatarConfig) error {
	if cfg == nil || !cfg.Enabled {
		return nil
	}
	if cfg.DefaultImage != "" && !defaultImages[cfg.DefaultImage] {
		return fmt.Errorf("invalid gravatar default image %q", cfg.DefaultImage)
	}
	if cfg.Rating != "" && !ratings[cfg.Rating] {
		return fmt.Errorf("invalid gravatar rating %q", cfg.Rating)
	}
	if cfg.Size != 0 && (cfg.Size < 1 || cfg.Size > 2048) {
		return fmt.Errorf("gravatar size must be between 1 and 2048, got %d", cfg.Size)
	}
	return nil
}
