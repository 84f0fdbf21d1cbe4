package xanadium

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrSlotEmpty indicates that nothing has been written to a Slot yet.
	ErrSlotEmpty = errors.New("slot empty")

	// ErrSessionNotFound indicates no session with the requested id exists.
	ErrSessionNotFound = errors.New("session not found")

	// ErrBusy indicates a request is already in flight, from any session.
	ErrBusy = errors.New("request pending")

	// ErrMalformedResponse indicates the chat endpoint replied without a
	// usable response text.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnsupportedImage indicates an attachment that is not an image.
	ErrUnsupportedImage = errors.New("unsupported image")

	// ErrInvalidDataURL indicates a string that is not a base64 data URL.
	ErrInvalidDataURL = errors.New("invalid data url")
)
