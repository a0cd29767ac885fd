package gcs

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestRefRoundTrip(t *testing.T) {
	object := ObjectPath("c1", "Intro Video.MP4")
	if !strings.HasPrefix(object, "courses/c1/lectures/") || !strings.HasSuffix(object, ".mp4") {
		t.Fatalf("object = %q", object)
	}
	if ObjectPath("c1", "intro.mp4") == ObjectPath("c1", "intro.mp4") {
		t.Fatal("object paths should be unique per upload")
	}
	b, o, err := ParseRef(Ref("videos", object))
	if err != nil || b != "videos" || o != object {
		t.Fatalf("ParseRef = %q %q %v", b, o, err)
	}
}

func TestParseRefRejects(t *testing.T) {
	for _, ref := range []string{"", "videos/x", "gs://", "gs://bucket", "gs:///obj"} {
		if _, _, err := ParseRef(ref); !errors.Is(err, ErrBadRef) {
			t.Errorf("ParseRef(%q) err = %v", ref, err)
		}
	}
}

func TestResolvePublicURLWithoutSigner(t *testing.T) {
	s := NewStore(nil, "videos", nil)
	u, err := s.ResolvePlayableURL(context.Background(), "gs://videos/courses/c1/lectures/a.mp4", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if u != "https://storage.googleapis.com/videos/courses/c1/lectures/a.mp4" {
		t.Errorf("url = %q", u)
	}
}

func TestResolveSignedURL(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	s := NewStore(nil, "videos", &Signer{Email: "signer@project.iam.gserviceaccount.com", PrivateKey: pemKey})
	raw, err := s.ResolvePlayableURL(context.Background(), "gs://videos/courses/c1/lectures/a.mp4", 10*time.Minute)
	if err != nil {
		t.Fatalf("ResolvePlayableURL: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatal(err)
	}
	q := u.Query()
	if q.Get("X-Goog-Signature") == "" || q.Get("X-Goog-Expires") == "" {
		t.Errorf("signed url query = %v", q)
	}
	if !strings.Contains(u.Path, "courses/c1/lectures/a.mp4") {
		t.Errorf("path = %q", u.Path)
	}
}

func TestStoreVideoUnconfigured(t *testing.T) {
	s := NewStore(nil, "", nil)
	if _, err := s.StoreVideo(context.Background(), "c1", "a.mp4", "video/mp4", strings.NewReader("x")); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadSigner(t *testing.T) {
	s, err := LoadSigner("", "/does/not/matter")
	if err != nil || s != nil {
		t.Fatalf("empty email: %v %v", s, err)
	}
	if _, err := LoadSigner("a@b", "/does/not/exist.pem"); err == nil {
		t.Fatal("expected read error")
	}
}
