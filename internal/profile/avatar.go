package profile

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// MaxAvatarBytes caps uploaded avatars at roughly 600 KB.
const MaxAvatarBytes = 600 << 10

// EncodeAvatar validates an uploaded image and returns it as an embeddable
// data URL. The bytes must sniff and decode as an image and fit the size cap.
func EncodeAvatar(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("avatar image is empty")
	}
	if len(data) > MaxAvatarBytes {
		return "", fmt.Errorf("avatar exceeds %d KB", MaxAvatarBytes>>10)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("avatar must be an image, got %s", mime)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("avatar image is not decodable: %w", err)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
