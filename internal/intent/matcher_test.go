package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchRuleOrdering(t *testing.T) {
	m := NewMatcher("majordomo")

	// Reminder-shaped phrases outrank power words they contain.
	in := m.Match("set reminder for meeting at 3pm, not a shutdown")
	assert.Equal(t, KindCreateReminder, in.Kind)
	assert.Equal(t, "meeting", in.Task)
	assert.Equal(t, "3pm", in.TimePhrase)

	// The shutdown guard keeps the sleep rule from stealing a clause
	// that explicitly asks for a shutdown.
	in = m.Match("shutdown, not just sleep")
	assert.Equal(t, KindSystemPower, in.Kind)
	assert.Equal(t, PowerShutdown, in.PowerKind)

	in = m.Match("go to standby now")
	assert.Equal(t, KindSystemPower, in.Kind)
	assert.Equal(t, PowerSleep, in.PowerKind)

	// Literal URLs are checked before the generic app-open rule.
	in = m.Match("open https://example.com/docs")
	assert.Equal(t, KindOpenURL, in.Kind)
	assert.Equal(t, "https://example.com/docs", in.URL)

	in = m.Match("open www.example.com")
	assert.Equal(t, KindOpenURL, in.Kind)
	assert.Equal(t, "https://www.example.com", in.URL)
}

func TestMatchOpenApp(t *testing.T) {
	m := NewMatcher("majordomo")

	in := m.Match("open google and search cats")
	assert.Equal(t, KindOpenApp, in.Kind)
	assert.Equal(t, "google", in.App)
	assert.Equal(t, "cats", in.Query)

	// Target stated before the verb resolves through the registry scan.
	in = m.Match("chrome, open")
	assert.Equal(t, KindOpenApp, in.Kind)
	assert.Equal(t, "chrome", in.App)
	assert.Equal(t, "", in.Query)

	// Verb with no recognizable target still classifies as open.
	in = m.Match("launch")
	assert.Equal(t, KindOpenApp, in.Kind)
	assert.Equal(t, "", in.App)
}

func TestMatchSimpleRules(t *testing.T) {
	m := NewMatcher("majordomo")

	cases := []struct {
		clause string
		kind   Kind
	}{
		{"majordomo url", KindShowURL},
		{"what's the time", KindGetTime},
		{"what is today's date", KindGetDate},
		{"toggle notebook", KindToggleNotebook},
		{"clear notebook", KindClearNotebook},
		{"show my reminders", KindListReminders},
		{"restart the machine", KindSystemPower},
		{"lock the screen", KindSystemPower},
		{"latest headlines", KindGetNews},
		{"camera on", KindCameraControl},
		{"tell me about black holes", KindGeneralQuery},
	}
	for _, tc := range cases {
		in := m.Match(tc.clause)
		assert.Equalf(t, tc.kind, in.Kind, "clause %q", tc.clause)
	}
}

func TestMatchSlots(t *testing.T) {
	m := NewMatcher("majordomo")

	in := m.Match("what's the weather in pune city")
	assert.Equal(t, KindGetWeather, in.Kind)
	assert.Equal(t, "pune city", in.City)

	in = m.Match("set volume to 40")
	assert.Equal(t, KindSetVolume, in.Kind)
	assert.True(t, in.LevelSet)
	assert.Equal(t, 40, in.Level)

	in = m.Match("brightness up")
	assert.Equal(t, KindSetBrightness, in.Kind)
	assert.False(t, in.LevelSet)

	in = m.Match("send a whatsapp message to +91 98765 saying hello there")
	assert.Equal(t, KindSendMessage, in.Kind)
	assert.Equal(t, "+9198765", in.Target)
	assert.Equal(t, "hello there", in.Body)

	in = m.Match("generate note quantum computing")
	assert.Equal(t, KindGenerateNote, in.Kind)
	assert.Equal(t, "quantum computing", in.Topic)

	in = m.Match("give me a code python binary search")
	assert.Equal(t, KindGenerateCode, in.Kind)
	assert.Equal(t, "python", in.Language)
	assert.Equal(t, "binary search", in.Topic)

	in = m.Match("delete my lecture reminder")
	assert.Equal(t, KindDeleteReminder, in.Kind)
	assert.Equal(t, "lecture", in.Task)

	in = m.Match("delete my reminder for standup")
	assert.Equal(t, KindDeleteReminder, in.Kind)
	assert.Equal(t, "standup", in.Task)
}

func TestMatchReminderWithoutTime(t *testing.T) {
	m := NewMatcher("majordomo")

	in := m.Match("remind me to water the plants")
	assert.Equal(t, KindCreateReminder, in.Kind)
	assert.Equal(t, "water the plants", in.Task)
	assert.Equal(t, "", in.TimePhrase)
}

func TestMatchIsPure(t *testing.T) {
	m := NewMatcher("majordomo")

	first := m.Match("open google and search cats")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Match("open google and search cats"))
	}
}
