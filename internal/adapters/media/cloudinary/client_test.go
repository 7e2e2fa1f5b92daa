package cloudinary

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sportsapparel/sport-apparel-admin/internal/domain"
)

func TestUpload(t *testing.T) {
	var gotPath string
	var gotFields map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotFields = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			gotFields[k] = v[0]
		}
		if len(r.MultipartForm.File["file"]) != 1 {
			t.Errorf("file parts = %d", len(r.MultipartForm.File["file"]))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/product_images/shirt.jpg","public_id":"product_images/shirt"}`))
	}))
	defer srv.Close()

	c := New("demo", "key", "secret").WithBaseURL(srv.URL)
	url, err := c.Upload(context.Background(), "product_images", "shirt.jpg", []byte("jpegdata"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "https://res.cloudinary.com/demo/image/upload/v1/product_images/shirt.jpg" {
		t.Fatalf("url = %q", url)
	}
	if gotPath != "/demo/image/upload" {
		t.Fatalf("path = %q", gotPath)
	}
	for _, k := range []string{"api_key", "timestamp", "signature", "folder"} {
		if gotFields[k] == "" {
			t.Fatalf("missing form field %q in %v", k, gotFields)
		}
	}
	if gotFields["folder"] != "product_images" {
		t.Fatalf("folder = %q", gotFields["folder"])
	}
}

func TestUploadErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer srv.Close()

	c := New("demo", "key", "secret").WithBaseURL(srv.URL)
	_, err := c.Upload(context.Background(), "", "a.jpg", []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "Invalid Signature") {
		t.Fatalf("err = %v", err)
	}
}

func TestUploadRejectsEmptyInput(t *testing.T) {
	c := New("demo", "key", "secret")
	if _, err := c.Upload(context.Background(), "", "a.jpg", nil); err == nil {
		t.Fatal("want error on empty payload")
	}
	if _, err := New("", "", "").Upload(context.Background(), "", "a.jpg", []byte("x")); err == nil {
		t.Fatal("want error on missing credentials")
	}
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := New("demo", "key", "secret").WithBaseURL(srv.URL)
	_, err := c.Upload(context.Background(), "", "a.jpg", []byte("x"))
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("upload err = %v, want ErrUnavailable", err)
	}
	err = c.Destroy(context.Background(), []string{"https://res.cloudinary.com/demo/image/upload/v1/product_images/a.jpg"})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("destroy err = %v, want ErrUnavailable", err)
	}
	if err := c.DestroyFolder(context.Background(), "product_images"); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("destroy folder err = %v, want ErrUnavailable", err)
	}
}

func TestAPIErrorIsNotUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer srv.Close()

	c := New("demo", "key", "secret").WithBaseURL(srv.URL)
	_, err := c.Upload(context.Background(), "", "a.jpg", []byte("x"))
	if err == nil || errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("rejected request must not read as transport failure: %v", err)
	}
}

func TestDestroy(t *testing.T) {
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/demo/image/destroy" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		ids = append(ids, r.FormValue("public_id"))
		_, _ = w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	c := New("demo", "key", "secret").WithBaseURL(srv.URL)
	err := c.Destroy(context.Background(), []string{
		"https://res.cloudinary.com/demo/image/upload/v169/product_images/a.jpg",
		"https://res.cloudinary.com/demo/image/upload/v169/product_images/b.png",
	})
	if err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if len(ids) != 2 || ids[0] != "product_images/a" || ids[1] != "product_images/b" {
		t.Fatalf("ids = %v", ids)
	}
}

func TestDestroyFolderFollowsCursor(t *testing.T) {
	var destroyed []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/demo/resources/image/upload"):
			if r.URL.Query().Get("prefix") != "product_images" {
				t.Errorf("prefix = %q", r.URL.Query().Get("prefix"))
			}
			if r.URL.Query().Get("next_cursor") == "" {
				_, _ = w.Write([]byte(`{"resources":[{"public_id":"product_images/a"}],"next_cursor":"c1"}`))
			} else {
				_, _ = w.Write([]byte(`{"resources":[{"public_id":"product_images/b"}]}`))
			}
		case r.URL.Path == "/demo/image/destroy":
			_ = r.ParseForm()
			destroyed = append(destroyed, r.FormValue("public_id"))
			_, _ = w.Write([]byte(`{"result":"ok"}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New("demo", "key", "secret").WithBaseURL(srv.URL)
	if err := c.DestroyFolder(context.Background(), "product_images"); err != nil {
		t.Fatalf("DestroyFolder: %v", err)
	}
	if len(destroyed) != 2 || destroyed[0] != "product_images/a" || destroyed[1] != "product_images/b" {
		t.Fatalf("destroyed = %v", destroyed)
	}
}

func TestPublicIDFromURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://res.cloudinary.com/demo/image/upload/v1699/product_images/shirt.jpg", "product_images/shirt"},
		{"https://res.cloudinary.com/demo/image/upload/product_images/shirt.png", "product_images/shirt"},
		{"https://res.cloudinary.com/demo/image/upload/v1699/shirt.jpg", "shirt"},
		{"https://res.cloudinary.com/demo/image/upload/shirt.webp", "shirt"},
		{"", ""},
		{"shirt.jpg", ""},
	}
	for _, tc := range cases {
		if got := PublicIDFromURL(tc.in); got != tc.want {
			t.Errorf("PublicIDFromURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
