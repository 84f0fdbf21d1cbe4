package xanadium

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Message is one bubble in a conversation. Messages are appended to a
// session and never mutated afterwards.
type Message struct {
	Role Role
	Text string
	// Image is a data URL ("data:image/png;base64,...") or empty.
	Image string
}

// HasImage reports whether the message carries an image.
func (m Message) HasImage() bool { return m.Image != "" }

// ImagePattern lists the file names accepted as image attachments.
const ImagePattern = "*.{png,jpg,jpeg,gif,webp}"

// Attachment is an image picked by the user, in binary form.
type Attachment struct {
	Name     string
	MimeType string
	Data     []byte
}

// DataURL encodes the attachment as a base64 data URL.
func (a Attachment) DataURL() string {
	return "data:" + a.MimeType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// ParseDataURL decodes a base64 data URL into an Attachment. The name is
// left empty.
func ParseDataURL(s string) (Attachment, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Attachment{}, fmt.Errorf("missing data: prefix: %w", ErrInvalidDataURL)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Attachment{}, fmt.Errorf("missing payload separator: %w", ErrInvalidDataURL)
	}
	mimeType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return Attachment{}, fmt.Errorf("only base64 payloads are supported: %w", ErrInvalidDataURL)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Attachment{}, fmt.Errorf("decode payload: %w", ErrInvalidDataURL)
	}
	return Attachment{MimeType: mimeType, Data: data}, nil
}

// LoadAttachment reads an image file from disk. The file name must match
// ImagePattern and the content must sniff as an image.
func LoadAttachment(path string) (Attachment, error) {
	name := filepath.Base(path)
	ok, err := doublestar.Match(ImagePattern, strings.ToLower(name))
	if err != nil {
		return Attachment{}, fmt.Errorf("match %q: %w", name, err)
	}
	if !ok {
		return Attachment{}, fmt.Errorf("%s: %w", name, ErrUnsupportedImage)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("read image: %w", err)
	}
	mimeType := http.DetectContentType(data)
	if !strings.HasPrefix(mimeType, "image/") {
		return Attachment{}, fmt.Errorf("%s sniffed as %s: %w", name, mimeType, ErrUnsupportedImage)
	}
	return Attachment{Name: name, MimeType: mimeType, Data: data}, nil
}
