package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUpstream marks a failure of the external image service. Handlers map it
// to a 500 with a generic message.
var ErrUpstream = errors.New("image service unavailable")

// IsDataURI reports whether s is a raw base64 image payload rather than an
// already-hosted URL.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ImageService talks to the external image hosting service that turns base64
// payloads into durable URLs.
type ImageService struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewImageService reads IMAGE_SERVICE_URL / IMAGE_SERVICE_KEY from the
// environment.
func NewImageService() *ImageService {
	return &ImageService{
		BaseURL: os.Getenv("IMAGE_SERVICE_URL"),
		APIKey:  os.Getenv("IMAGE_SERVICE_KEY"),
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Upload relocates a base64 data URI and returns the durable URL. Any
// transport or non-2xx failure is reported as ErrUpstream.
func (is *ImageService) Upload(ctx context.Context, dataURI string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"file":      dataURI,
		"public_id": uuid.NewString(),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, is.BaseURL+"/upload", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+is.APIKey)

	resp, err := is.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || result.URL == "" {
		return "", fmt.Errorf("%w: bad response", ErrUpstream)
	}
	return result.URL, nil
}

// Release deletes a previously uploaded image. Callers treat failures as
// best-effort and only log them.
func (is *ImageService) Release(ctx context.Context, imageURL string) error {
	payload, err := json.Marshal(map[string]string{"url": imageURL})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, is.BaseURL+"/destroy", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+is.APIKey)

	resp, err := is.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
	return nil
}
