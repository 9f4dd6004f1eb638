// Package capability declares the external collaborator interfaces the
// dispatcher and scheduler call out to. The core never implements
// their internals; concrete clients live in subpackages and any of
// them may be absent (nil) when unconfigured.
package capability

import "context"

// Weather looks up current conditions for a city and returns a
// user-facing description.
type Weather interface {
	Current(ctx context.Context, city string) (string, error)
}

// News returns up to count headline strings.
type News interface {
	TopHeadlines(ctx context.Context, count int) ([]string, error)
}

// Completion is a generative text capability.
type Completion interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// LanguageDetector returns an ISO 639-1 code for the text, "en" when
// undecidable.
type LanguageDetector interface {
	Detect(text string) string
}

// Notifier delivers a desktop notification. Delivery failures are the
// notifier's problem; callers fire and forget.
type Notifier interface {
	Notify(message string)
}

// System performs a host power action: sleep, restart, shutdown, lock.
type System interface {
	Perform(kind string) error
}

// Audio adjusts the master output volume (0-100).
type Audio interface {
	SetVolume(percent int) error
}

// Display adjusts the screen brightness (0-100).
type Display interface {
	SetBrightness(percent int) error
}

// AppLauncher starts a native application by its per-OS command.
type AppLauncher interface {
	Launch(command string, args ...string) error
}

// Browser opens a URL in the default browser.
type Browser interface {
	OpenURL(url string) error
}

// Camera controls the external camera feed.
type Camera interface {
	Start() error
	Stop() error
}
