package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/google/uuid"
	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/pageza/foodgram/backend/internal/types"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

const (
	AvatarPrefix      = "users"
	RecipeImagePrefix = "recipes/images"

	maxImageBytes = 10 << 20

	invalidImageMessage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
)

var errInvalidDataURI = errors.New("invalid data URI")

var imageFormats = map[string]struct {
	ext         string
	contentType string
}{
	"png":  {"png", "image/png"},
	"jpeg": {"jpg", "image/jpeg"},
	"gif":  {"gif", "image/gif"},
	"webp": {"webp", "image/webp"},
}

// ImageService turns base64 data URIs into stored media objects.
type ImageService struct {
	store  storage.Storage
	logger *zap.Logger
}

func NewImageService(store storage.Storage, logger *zap.Logger) *ImageService {
	return &ImageService{store: store, logger: logger.Named("image")}
}

// Save decodes dataURI, checks that it holds a supported image and stores it
// under prefix. Bad input is reported as a validation error on field.
func (s *ImageService) Save(ctx context.Context, prefix, field, dataURI string) (string, error) {
	data, err := decodeDataURI(dataURI)
	if err != nil {
		return "", types.FieldError(field, invalidImageMessage)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", types.FieldError(field, invalidImageMessage)
	}
	kind, ok := imageFormats[format]
	if !ok {
		return "", types.FieldError(field, invalidImageMessage)
	}

	key := fmt.Sprintf("%s/%s.%s", prefix, uuid.NewString(), kind.ext)
	if err := s.store.Save(ctx, key, data, kind.contentType); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return key, nil
}

// Delete removes a stored image. Failures are logged, not returned, since
// the database row is already gone or replaced.
func (s *ImageService) Delete(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to delete image", zap.String("key", key), zap.Error(err))
	}
}

// URL returns the public location of key, or nil when there is no image.
func (s *ImageService) URL(key string) *string {
	if key == "" {
		return nil
	}
	u := s.store.URL(key)
	return &u
}

// decodeDataURI accepts "data:image/<type>;base64,<payload>".
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, errInvalidDataURI
	}

	payload = strings.TrimSpace(payload)
	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return nil, errInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, errInvalidDataURI
		}
	}
	return data, nil
}
