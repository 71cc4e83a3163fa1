package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/maheshrc27/tweetgenie/internal/models"
	"github.com/maheshrc27/tweetgenie/internal/transfer"
	"github.com/maheshrc27/tweetgenie/pkg/utils"
)

// Credentials authenticate a single publish call. A fresh platform client is
// built from them on every call.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

func CredentialsFromTransfer(tc transfer.TwitterCredentials) Credentials {
	return Credentials{
		APIKey:       strings.TrimSpace(tc.TwitterAPIKey),
		APISecret:    strings.TrimSpace(tc.TwitterAPISecret),
		AccessToken:  strings.TrimSpace(tc.TwitterAccessToken),
		AccessSecret: strings.TrimSpace(tc.TwitterAccessSecret),
	}
}

// Complete reports whether all four fields are present and non-empty.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// CredentialCipher seals platform secrets into a ScheduledTweet and opens them
// again at dispatch time.
type CredentialCipher struct {
	key []byte
}

func NewCredentialCipher(key []byte) *CredentialCipher {
	return &CredentialCipher{key: key}
}

func (c *CredentialCipher) Seal(creds Credentials, st *models.ScheduledTweet) error {
	fields := []struct {
		plain string
		dst   *string
	}{
		{creds.APIKey, &st.TwitterAPIKey},
		{creds.APISecret, &st.TwitterAPISecret},
		{creds.AccessToken, &st.TwitterAccessToken},
		{creds.AccessSecret, &st.TwitterAccessSecret},
	}
	for _, f := range fields {
		sealed, err := utils.Encrypt([]byte(f.plain), c.key)
		if err != nil {
			return fmt.Errorf("error encrypting credentials: %w", err)
		}
		*f.dst = sealed
	}
	return nil
}

func (c *CredentialCipher) Open(st *models.ScheduledTweet) (Credentials, error) {
	var creds Credentials
	fields := []struct {
		sealed string
		dst    *string
	}{
		{st.TwitterAPIKey, &creds.APIKey},
		{st.TwitterAPISecret, &creds.APISecret},
		{st.TwitterAccessToken, &creds.AccessToken},
		{st.TwitterAccessSecret, &creds.AccessSecret},
	}
	for _, f := range fields {
		if f.sealed == "" {
			continue
		}
		plain, err := utils.Decrypt(f.sealed, c.key)
		if err != nil {
			return Credentials{}, fmt.Errorf("error decrypting credentials: %w", err)
		}
		*f.dst = plain
	}
	return creds, nil
}

// Resolve satisfies the dispatcher's credential lookup: credentials travel
// with the record.
func (c *CredentialCipher) Resolve(_ context.Context, st *models.ScheduledTweet) (Credentials, error) {
	return c.Open(st)
}
