package media

import (
	"testing"
	"time"
)

func TestNewCloudinaryFromEnvDisabledWithoutCredentials(t *testing.T) {
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")
	t.Setenv("CLOUDINARY_API_KEY", "")
	t.Setenv("CLOUDINARY_API_SECRET", "")

	c, err := NewCloudinaryFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Fatal("expected nil store without credentials")
	}
}

func TestSignIsDeterministic(t *testing.T) {
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	c, err := NewCloudinaryFromEnv()
	if err != nil || c == nil {
		t.Fatalf("init: %v", err)
	}
	at := time.Unix(1700000000, 0)
	a, err := c.Sign("menu/1", "", at)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Sign("menu/1", "", at)
	if a.Signature == "" || a.Signature != b.Signature {
		t.Fatalf("signatures differ: %q vs %q", a.Signature, b.Signature)
	}
	other, _ := c.Sign("menu/2", "", at)
	if other.Signature == a.Signature {
		t.Fatal("folder should be part of the signature")
	}
	if a.Timestamp != at.Unix() || a.ApiKey != "key" || a.CloudName != "demo" {
		t.Fatalf("unexpected signature payload: %+v", a)
	}
}
