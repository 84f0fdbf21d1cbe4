package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fwojciec/xanadium"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// MaxUploadBytes caps the multipart form accepted by the chat handler.
const MaxUploadBytes = 10 << 20

// DeniedText is the response text for unauthorized requests and for a
// handler without a responder.
const DeniedText = "Access denied or system not ready."

type handler struct {
	responder xanadium.Responder
	persona   string
	token     string
	logger    *log.Logger
}

// HandlerOption configures NewHandler.
type HandlerOption func(*handler)

// WithPersona sets the persona prepended to every prompt.
func WithPersona(persona string) HandlerOption {
	return func(h *handler) { h.persona = persona }
}

// WithRequiredToken makes the handler reject requests without the matching
// bearer token.
func WithRequiredToken(token string) HandlerOption {
	return func(h *handler) { h.token = token }
}

// WithHandlerLogger sets the logger.
func WithHandlerLogger(l *log.Logger) HandlerOption {
	return func(h *handler) { h.logger = l }
}

// NewHandler builds the chat endpoint router. A nil responder makes every
// chat request fail with DeniedText.
func NewHandler(responder xanadium.Responder, opts ...HandlerOption) http.Handler {
	h := &handler{
		responder: responder,
		persona:   xanadium.DefaultPersona,
		logger:    log.New(io.Discard),
	}
	for _, o := range opts {
		o(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	r.Post(ChatPath, h.chat)
	r.Get(LogoutPath, h.logout)
	return r
}

func (h *handler) chat(w http.ResponseWriter, r *http.Request) {
	if h.responder == nil || !h.authorized(r) {
		writeResponse(w, http.StatusUnauthorized, DeniedText)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		writeResponse(w, http.StatusBadRequest, fmt.Sprintf("Error: %v", err))
		return
	}
	prompt := xanadium.Prompt{
		Persona: h.persona,
		Text:    r.FormValue("message"),
	}
	img, err := formImage(r)
	if err != nil {
		writeResponse(w, http.StatusBadRequest, fmt.Sprintf("Error: %v", err))
		return
	}
	prompt.Image = img

	reply, err := h.responder.Respond(r.Context(), prompt)
	if err != nil {
		h.logger.Error("respond", "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeResponse(w, http.StatusInternalServerError, fmt.Sprintf("Error: %v", err))
		return
	}
	h.logger.Info("chat", "request_id", middleware.GetReqID(r.Context()), "image", img != nil, "reply_chars", len(reply))
	writeResponse(w, http.StatusOK, reply)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) authorized(r *http.Request) bool {
	if h.token == "" {
		return true
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}

// formImage returns the uploaded "file" part, or nil when there is none.
func formImage(r *http.Request) (*xanadium.Attachment, error) {
	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, fmt.Errorf("%s: %w", header.Filename, xanadium.ErrUnsupportedImage)
	}
	return &xanadium.Attachment{Name: header.Filename, MimeType: mimeType, Data: data}, nil
}

func writeResponse(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"response": text})
}
