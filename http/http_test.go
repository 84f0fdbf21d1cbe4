package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/xanadium"
	xhttp "github.com/fwojciec/xanadium/http"
	"github.com/fwojciec/xanadium/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestClient_Chat_FormFields(t *testing.T) {
	t.Parallel()

	var (
		gotMessage  string
		gotFile     []byte
		gotFileName string
		gotFileType string
		gotReqID    string
		gotAuth     string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, xhttp.ChatPath, r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotMessage = r.FormValue("message")
		f, h, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		gotFile, _ = io.ReadAll(f)
		gotFileName = h.Filename
		gotFileType = h.Header.Get("Content-Type")
		gotReqID = r.Header.Get("X-Request-Id")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"response":"nice picture"}`)
	}))
	defer srv.Close()

	c := xhttp.NewClient(srv.URL+"/", xhttp.WithToken("secret"))
	reply, err := c.Chat(context.Background(), xanadium.Outgoing{
		Text:  "what is this?",
		Image: &xanadium.Attachment{Name: "cat.png", MimeType: "image/png", Data: pngHeader},
	})
	require.NoError(t, err)

	assert.Equal(t, "nice picture", reply)
	assert.Equal(t, "what is this?", gotMessage)
	assert.Equal(t, pngHeader, gotFile)
	assert.Equal(t, "cat.png", gotFileName)
	assert.Equal(t, "image/png", gotFileType)
	assert.Len(t, gotReqID, 36)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestClient_Chat_TextOnlyHasNoFilePart(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("file")
		assert.ErrorIs(t, err, http.ErrMissingFile)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"response":"hi"}`)
	}))
	defer srv.Close()

	reply, err := xhttp.NewClient(srv.URL).Chat(context.Background(), xanadium.Outgoing{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hi", reply)
}

func TestClient_Chat_Responses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		want      string
		malformed bool
	}{
		{"ok", http.StatusOK, `{"response":"hello"}`, "hello", false},
		{"error status with text", http.StatusInternalServerError, `{"response":"Error: quota"}`, "Error: quota", false},
		{"missing field", http.StatusOK, `{"reply":"hello"}`, "", true},
		{"empty field", http.StatusOK, `{"response":""}`, "", true},
		{"null field", http.StatusOK, `{"response":null}`, "", true},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "", true},
		{"wrong type", http.StatusOK, `{"response":42}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			reply, err := xhttp.NewClient(srv.URL).Chat(context.Background(), xanadium.Outgoing{Text: "x"})
			if tt.malformed {
				assert.ErrorIs(t, err, xanadium.ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply)
		})
	}
}

func TestClient_Chat_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := xhttp.NewClient(url).Chat(context.Background(), xanadium.Outgoing{Text: "x"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, xanadium.ErrMalformedResponse)
}

func TestClient_Chat_Cancelled(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := xhttp.NewClient(srv.URL).Chat(ctx, xanadium.Outgoing{Text: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Logout(t *testing.T) {
	t.Parallel()

	var chats atomic.Int32
	var lastAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case xhttp.LogoutPath:
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		case xhttp.ChatPath:
			chats.Add(1)
			lastAuth.Store(r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `{"response":"ok"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := xhttp.NewClient(srv.URL, xhttp.WithToken("secret"))
	_, err := c.Chat(context.Background(), xanadium.Outgoing{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret", lastAuth.Load())

	// The redirect is not followed, so the missing /login route is fine.
	require.NoError(t, c.Logout(context.Background()))

	_, err = c.Chat(context.Background(), xanadium.Outgoing{Text: "x"})
	require.NoError(t, err)
	assert.Equal(t, "", lastAuth.Load())
	assert.Equal(t, int32(2), chats.Load())
}

func TestClient_LogoutDuringChat(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == xhttp.LogoutPath {
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "", MaxAge: -1})
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc"})
		_, _ = io.WriteString(w, `{"response":"ok"}`)
	}))
	defer srv.Close()

	c := xhttp.NewClient(srv.URL, xhttp.WithToken("secret"))
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			reply, err := c.Chat(context.Background(), xanadium.Outgoing{Text: "x"})
			assert.NoError(t, err)
			assert.Equal(t, "ok", reply)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Logout(context.Background()))
		}()
	}
	wg.Wait()
}

func TestHandler_Chat(t *testing.T) {
	t.Parallel()

	var got xanadium.Prompt
	responder := &mock.Responder{RespondFn: func(_ context.Context, p xanadium.Prompt) (string, error) {
		got = p
		return "hello from the model", nil
	}}
	srv := httptest.NewServer(xhttp.NewHandler(responder, xhttp.WithPersona("Be kind.")))
	defer srv.Close()

	reply, err := xhttp.NewClient(srv.URL).Chat(context.Background(), xanadium.Outgoing{
		Text:  "describe",
		Image: &xanadium.Attachment{Name: "x.png", MimeType: "image/png", Data: pngHeader},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello from the model", reply)

	assert.Equal(t, "Be kind.", got.Persona)
	assert.Equal(t, "describe", got.Text)
	require.NotNil(t, got.Image)
	assert.Equal(t, "x.png", got.Image.Name)
	assert.Equal(t, "image/png", got.Image.MimeType)
	assert.Equal(t, pngHeader, got.Image.Data)
}

func TestHandler_Chat_Errors(t *testing.T) {
	t.Parallel()

	ok := &mock.Responder{RespondFn: func(context.Context, xanadium.Prompt) (string, error) { return "fine", nil }}
	broken := &mock.Responder{RespondFn: func(context.Context, xanadium.Prompt) (string, error) {
		return "", errors.New("model overloaded")
	}}

	tests := []struct {
		name       string
		handler    http.Handler
		auth       string
		wantStatus int
		wantText   string
	}{
		{"no responder", xhttp.NewHandler(nil), "", http.StatusUnauthorized, xhttp.DeniedText},
		{"missing token", xhttp.NewHandler(ok, xhttp.WithRequiredToken("t0k")), "", http.StatusUnauthorized, xhttp.DeniedText},
		{"wrong token", xhttp.NewHandler(ok, xhttp.WithRequiredToken("t0k")), "Bearer nope", http.StatusUnauthorized, xhttp.DeniedText},
		{"right token", xhttp.NewHandler(ok, xhttp.WithRequiredToken("t0k")), "Bearer t0k", http.StatusOK, "fine"},
		{"responder failure", xhttp.NewHandler(broken), "", http.StatusInternalServerError, "Error: model overloaded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			body := strings.NewReader("--b\r\nContent-Disposition: form-data; name=\"message\"\r\n\r\nhi\r\n--b--\r\n")
			req := httptest.NewRequest(http.MethodPost, xhttp.ChatPath, body)
			req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			tt.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var payload map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, tt.wantText, payload["response"])
		})
	}
}

func TestHandler_Chat_RejectsNonImage(t *testing.T) {
	t.Parallel()

	called := false
	responder := &mock.Responder{RespondFn: func(context.Context, xanadium.Prompt) (string, error) {
		called = true
		return "", nil
	}}
	srv := httptest.NewServer(xhttp.NewHandler(responder))
	defer srv.Close()

	reply, err := xhttp.NewClient(srv.URL).Chat(context.Background(), xanadium.Outgoing{
		Text:  "x",
		Image: &xanadium.Attachment{Name: "notes.txt", MimeType: "text/plain", Data: []byte("hello")},
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "unsupported image")
	assert.False(t, called)
}

func TestHandler_LogoutAndHealth(t *testing.T) {
	t.Parallel()

	h := xhttp.NewHandler(nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, xhttp.LogoutPath, nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
