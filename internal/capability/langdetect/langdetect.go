// Package langdetect implements the language-detection capability with
// a local trigram detector; no external service involved.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Detector wraps whatlanggo behind the capability interface.
type Detector struct{}

// New returns a Detector.
func New() *Detector { return &Detector{} }

// Detect returns the ISO 639-1 code of the text's language, falling
// back to "en" when the text is empty or the detection is unreliable.
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return "en"
	}
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return "en"
	}
	if code := info.Lang.Iso6391(); code != "" {
		return code
	}
	return "en"
}
