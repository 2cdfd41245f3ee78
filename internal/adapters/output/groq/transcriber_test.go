package groq

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"sehatnama/internal/domain"
)

// TestTranscribeSuccess tests the multipart request and verbose JSON parsing
func TestTranscribeSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("expected path /audio/transcriptions, got: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer gsk-test" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.FormValue("language") != "ur" {
			t.Errorf("expected language ur, got: %s", r.FormValue("language"))
		}
		if r.FormValue("response_format") != "verbose_json" {
			t.Errorf("expected verbose_json, got: %s", r.FormValue("response_format"))
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Errorf("expected file part: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		if string(data) != "RIFF" {
			t.Errorf("unexpected audio payload %q", data)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"task":"transcribe","language":"urdu","duration":2.5,"text":"مجھے بخار ہے"}`)
	}))
	defer server.Close()

	tr := NewTranscriber(Config{BaseURL: server.URL, APIKey: "gsk-test"})

	result, err := tr.Transcribe(context.Background(), domain.TranscriptionRequest{FileName: "a.wav", Audio: []byte("RIFF")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "مجھے بخار ہے" || result.Duration != 2.5 {
		t.Errorf("unexpected result: %+v", result)
	}
}

// TestTranscribeErrors tests error mapping
func TestTranscribeErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"client error", http.StatusBadRequest, domain.ErrInvalidRequest},
		{"server error", http.StatusInternalServerError, domain.ErrCollaboratorUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error":{"message":"nope","type":"invalid_request_error"}}`)
			}))
			defer server.Close()

			tr := NewTranscriber(Config{BaseURL: server.URL})
			_, err := tr.Transcribe(context.Background(), domain.TranscriptionRequest{Audio: []byte("x")})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestTranscribeRejectsEmptyAudio tests input validation
func TestTranscribeRejectsEmptyAudio(t *testing.T) {
	tr := NewTranscriber(Config{})

	if _, err := tr.Transcribe(context.Background(), domain.TranscriptionRequest{}); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}
