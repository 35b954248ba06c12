package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type fakeAPI struct {
	server    *httptest.Server
	paths     []string
	prompt    string
	size      string
	emptyData bool
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{}
	img := pngBytes(t, 8, 8)

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.paths = append(f.paths, r.URL.Path)

		switch r.URL.Path {
		case "/v1/images/generations":
			var body struct {
				Prompt string `json:"prompt"`
				Size   string `json:"size"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.prompt, f.size = body.Prompt, body.Size
		case "/v1/images/variations":
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("variation request is not multipart: %v", err)
			}
			f.size = r.FormValue("size")
		case "/files/result.png":
			_, _ = w.Write(img)
			return
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if f.emptyData {
			_, _ = w.Write([]byte(`{"created": 1, "data": []}`))
			return
		}
		_, _ = fmt.Fprintf(w, `{"created": 1, "data": [{"url": "%s/files/result.png"}]}`, f.server.URL)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) client(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient("test-key", Options{BaseURL: f.server.URL + "/v1", HTTPClient: f.server.Client()})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClientEmptyKey(t *testing.T) {
	if _, err := NewClient("", Options{}); err == nil {
		t.Error("expected error for empty api key")
	}
}

func TestGenerateFromPrompt(t *testing.T) {
	api := newFakeAPI(t)
	out := filepath.Join(t.TempDir(), "fg.png")

	err := api.client(t).Generate(context.Background(), Request{
		Prompt:     "a chubby bengal cat",
		Size:       "512x512",
		OutputPath: out,
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if api.prompt != "a chubby bengal cat" {
		t.Errorf("prompt = %q", api.prompt)
	}
	if api.size != "512x512" {
		t.Errorf("size = %q, want 512x512", api.size)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("output is not a png: %v", err)
	}
}

func TestGenerateOverwritesExisting(t *testing.T) {
	api := newFakeAPI(t)
	out := filepath.Join(t.TempDir(), "fg.png")
	if err := os.WriteFile(out, pngBytes(t, 100, 60), 0644); err != nil {
		t.Fatal(err)
	}

	if err := api.client(t).Generate(context.Background(), Request{Prompt: "cat", OutputPath: out}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a png: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Errorf("bounds = %v, want the generated 8x8 image", img.Bounds())
	}
}

func TestGenerateVariation(t *testing.T) {
	api := newFakeAPI(t)
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.png")
	if err := os.WriteFile(seed, pngBytes(t, 4, 4), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out.png")

	err := api.client(t).Generate(context.Background(), Request{SeedPath: seed, OutputPath: out})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(api.paths) == 0 || api.paths[0] != "/v1/images/variations" {
		t.Errorf("paths = %v, want variation endpoint first", api.paths)
	}
	if api.size != DefaultSize {
		t.Errorf("size = %q, want %q", api.size, DefaultSize)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     func(dir string) Request
		empty   bool
		wantMsg string
	}{
		{
			name: "emptyResult",
			req: func(dir string) Request {
				return Request{Prompt: "x", OutputPath: filepath.Join(dir, "o.png")}
			},
			empty:   true,
			wantMsg: "empty result",
		},
		{
			name:    "variationWithoutSeed",
			req:     func(dir string) Request { return Request{OutputPath: filepath.Join(dir, "o.png")} },
			wantMsg: "seed",
		},
		{
			name: "missingSeedFile",
			req: func(dir string) Request {
				return Request{SeedPath: filepath.Join(dir, "missing.png"), OutputPath: filepath.Join(dir, "o.png")}
			},
			wantMsg: "open seed image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			api.emptyData = tt.empty

			err := api.client(t).Generate(context.Background(), tt.req(t.TempDir()))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestGenerateServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	c, err := NewClient("k", Options{BaseURL: server.URL + "/v1", HTTPClient: server.Client()})
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "o.png")
	if err := c.Generate(context.Background(), Request{Prompt: "x", OutputPath: out}); err == nil {
		t.Error("expected error for 401")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no file should be written on failure")
	}
}
