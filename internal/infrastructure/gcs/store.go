// Package gcs stores lecture videos in Google Cloud Storage and hands out
// time-limited playback URLs.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/oksasatya/course-marketplace/internal/domain/gateway"
)

const refScheme = "gs://"

var ErrBadRef = errors.New("gcs: malformed asset ref")

// NewClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// Signer holds the service account used for V4 signed URLs.
type Signer struct {
	Email      string
	PrivateKey []byte
}

// LoadSigner reads the PEM key at keyPath. An empty email yields nil, which
// makes the store fall back to public object URLs.
func LoadSigner(email, keyPath string) (*Signer, error) {
	if email == "" {
		return nil, nil
	}
	s := &Signer{Email: email}
	if keyPath != "" {
		b, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("gcs: read signer key: %w", err)
		}
		s.PrivateKey = b
	}
	return s, nil
}

type Store struct {
	client *storage.Client
	bucket string
	signer *Signer
	now    func() time.Time
}

func NewStore(client *storage.Client, bucket string, signer *Signer) *Store {
	return &Store{client: client, bucket: bucket, signer: signer, now: time.Now}
}

// ObjectPath places every upload under its course with a fresh name so
// uploads never overwrite each other.
func ObjectPath(courseID, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("courses/%s/lectures/%s%s", courseID, uuid.NewString(), ext)
}

func Ref(bucket, object string) string {
	return refScheme + bucket + "/" + object
}

func ParseRef(ref string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(ref, refScheme)
	if !ok {
		return "", "", ErrBadRef
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", ErrBadRef
	}
	return bucket, object, nil
}

// PublicURL builds a public URL for an object (assuming public read access)
func PublicURL(bucket, objectPath string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objectPath)
}

func (s *Store) StoreVideo(ctx context.Context, courseID, filename, contentType string, r io.Reader) (string, error) {
	if s.client == nil || s.bucket == "" {
		return "", errors.New("gcs: store not configured")
	}
	object := ObjectPath(courseID, filename)
	wc := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("gcs: upload %s: %w", object, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("gcs: upload %s: %w", object, err)
	}
	return Ref(s.bucket, object), nil
}

func (s *Store) ResolvePlayableURL(ctx context.Context, ref string, ttl time.Duration) (string, error) {
	bucket, object, err := ParseRef(ref)
	if err != nil {
		return "", err
	}
	if s.signer == nil {
		return PublicURL(bucket, object), nil
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "GET",
		Expires:        s.now().Add(ttl),
		GoogleAccessID: s.signer.Email,
		PrivateKey:     s.signer.PrivateKey,
	}
	if s.client != nil && len(s.signer.PrivateKey) == 0 {
		return s.client.Bucket(bucket).SignedURL(object, opts)
	}
	return storage.SignedURL(bucket, object, opts)
}

var _ gateway.AssetStore = (*Store)(nil)
