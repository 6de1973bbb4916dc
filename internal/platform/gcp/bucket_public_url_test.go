package gcp

import (
	"errors"
	"testing"

	"github.com/yungbote/hirebridge-backend/internal/platform/objectstore"
)

func TestResolvePublicBaseURL(t *testing.T) {
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "")
	baseURL, source, err := resolvePublicBaseURL(objectstore.Config{Mode: objectstore.ModeGCS})
	if err != nil {
		t.Fatalf("resolvePublicBaseURL: %v", err)
	}
	if baseURL != "" || source != "gcs_default" {
		t.Fatalf("gcs default: want=(\"\", gcs_default) got=(%q, %q)", baseURL, source)
	}

	baseURL, source, err = resolvePublicBaseURL(objectstore.Config{
		Mode:         objectstore.ModeGCSEmulator,
		EmulatorHost: "http://fake-gcs:4443/",
	})
	if err != nil {
		t.Fatalf("resolvePublicBaseURL: %v", err)
	}
	if baseURL != "http://fake-gcs:4443" || source != "storage_emulator_host" {
		t.Fatalf("emulator: want=(http://fake-gcs:4443, storage_emulator_host) got=(%q, %q)", baseURL, source)
	}

	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", "localhost:4443")
	if _, _, err := resolvePublicBaseURL(objectstore.Config{Mode: objectstore.ModeGCS}); err == nil {
		t.Fatalf("relative public base: expected error, got nil")
	}
}

func TestGetPublicURLGCSDefault(t *testing.T) {
	bs := &bucketService{resumeBucket: bucketConfig{name: "hb-resumes"}}

	got := bs.GetPublicURL(objectstore.CategoryResume, "u1/1700000000000.pdf")
	want := "https://storage.googleapis.com/hb-resumes/u1/1700000000000.pdf"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUsesCDNDomain(t *testing.T) {
	bs := &bucketService{resumeBucket: bucketConfig{name: "hb-resumes", cdnDomain: "cdn.example.com"}}

	got := bs.GetPublicURL(objectstore.CategoryResume, "/u1/1.pdf")
	want := "https://cdn.example.com/u1/1.pdf"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
}

func TestGetPublicURLUsesEmulatorMediaEndpoint(t *testing.T) {
	bs := &bucketService{
		storageMode:   objectstore.ModeGCSEmulator,
		emulatorHost:  "http://fake-gcs:4443",
		replicaBucket: bucketConfig{name: "hb-replicas", private: true},
	}

	got := bs.GetPublicURL(objectstore.CategoryReplica, "job-123/resume_jane_doe.pdf")
	want := "http://fake-gcs:4443/storage/v1/b/hb-replicas/o/job-123%2Fresume_jane_doe.pdf?alt=media"
	if got != want {
		t.Fatalf("GetPublicURL: want=%q got=%q", want, got)
	}
	if seg := objectstore.LastSegment(got); seg != "resume_jane_doe.pdf" {
		t.Fatalf("LastSegment(emulator url): want=%q got=%q", "resume_jane_doe.pdf", seg)
	}
}

func TestUnknownCategoryRejected(t *testing.T) {
	bs := &bucketService{}
	if _, err := bs.getBucketConfig(objectstore.Category("avatar")); !errors.Is(err, objectstore.ErrUnknownBucket) {
		t.Fatalf("getBucketConfig: want ErrUnknownBucket got=%v", err)
	}
}
