package common

import "errors"

var (

	// gateway errors
	ErrNetwork  = errors.New("network error")
	ErrParse    = errors.New("unexpected response")
	ErrNotFound = errors.New("not found")

	// storage errors, logged by the store and never returned to callers
	ErrStorage = errors.New("storage error")

	ErrInvalidQuery = errors.New("invalid query")
	ErrInvalidRef   = errors.New("invalid verse reference")

	// playback errors
	ErrAudio = errors.New("recitation unavailable")
)

// UserMessage maps an error to the text shown on screen
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "Not found. Check the chapter or juz number."
	case errors.Is(err, ErrNetwork):
		return "Could not reach the server. Check your connection and try again."
	case errors.Is(err, ErrParse):
		return "The server sent an unexpected response. Please try again later."
	case errors.Is(err, ErrAudio):
		return "Recitation is unavailable. Check that the audio player is installed."
	case errors.Is(err, ErrInvalidRef):
		return "Use a verse reference like 2:255."
	case errors.Is(err, ErrInvalidQuery):
		return "Enter something to search for."
	default:
		return "Something went wrong. Please try again."
	}
}
