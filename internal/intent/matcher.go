package intent

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// rule is one row of the ordered cascade: a named predicate+extractor.
// The first rule that matches wins; later rules are never consulted.
type rule struct {
	name  string
	match func(clause string) (Intent, bool)
}

// Matcher resolves clauses against the static rule table. Ordering is
// load-bearing: the sleep rule excludes shutdown phrasing so "do not
// shutdown, just sleep" resolves to sleep, reminder-shaped phrases win
// over power words they happen to contain, and literal URLs are
// checked before the generic app-open rule.
type Matcher struct {
	rules    []rule
	appNames []string
}

var (
	sleepRx       = regexp.MustCompile(`\b(sleep|standby)\b`)
	shutdownRx    = regexp.MustCompile(`\b(shutdown|power\s+off)\b`)
	urlRx         = regexp.MustCompile(`(?:https?://|www\.)\S+`)
	urlHintRx     = regexp.MustCompile(`(?:https?://|www\.)`)
	openVerbRx    = regexp.MustCompile(`(?:open|kholo|khol|launch|start|kholna)\s+(\w+)(?:\s+(.*))?`)
	whatsappRx    = regexp.MustCompile(`whatsapp message to\s+([\d\s\+]+?)\s+saying\s+(.*)`)
	cityRx        = regexp.MustCompile(`(?:weather|was the weather)\s*(?:in)?\s*([\w\s]+)`)
	numberRx      = regexp.MustCompile(`\d+`)
	codeRx        = regexp.MustCompile(`(write\s+a\s+program|code\s+in|give\s+me\s+a\s+code)\s+(java|python|javascript|c\+\+|c#)\s*(.*)`)
	noteStripRx   = regexp.MustCompile(`(generate\s+)?note\s*`)
	reminderRx    = regexp.MustCompile(`\b(remind(\s+me)?(\s+to)?|set\s+reminder|reminder(\s+for)?)\b`)
	reminderAltRx = regexp.MustCompile(`\b(meeting|lecture|call|task|appointment)\s+(reminder|at)\b`)
	timeSlotRx    = regexp.MustCompile(`(?:at\s+)?((?:\d{1,2}:\d{2}|\d{1,2})\s*(?:am|pm)(?:\s+tomorrow)?|\d{1,2}:\d{2}(?:\s+tomorrow)?)`)
	taskRx        = regexp.MustCompile(`(?:remind\s+(?:me\s+)?(?:to\s+)?|set\s+reminder\s+(?:for\s+)?|reminder\s+(?:for\s+)?)(.+?)(?:\s+at\s+\d|\s*$)`)
	deleteForRx   = regexp.MustCompile(`delete\s+my\s+reminder\s+(?:for\s+)?(.+)$`)
	deleteMidRx   = regexp.MustCompile(`delete\s+my\s+(.+?)\s+reminder\b`)
)

// NewMatcher builds the rule table. The wake name only affects the
// self-URL rule ("majordomo url", "my link", ...).
func NewMatcher(wakeName string) *Matcher {
	m := &Matcher{}

	names := make([]string, 0, len(Apps))
	for k := range Apps {
		names = append(names, k)
	}
	sort.Strings(names)
	m.appNames = names

	wake := strings.ToLower(strings.TrimSpace(wakeName))
	selfURLKeys := []string{
		wake + " url", wake + " link",
		"my url", "my link", "web url", "server url", "local url",
	}

	m.rules = []rule{
		{"self-url", func(c string) (Intent, bool) {
			for _, k := range selfURLKeys {
				if strings.Contains(c, k) {
					return Intent{Kind: KindShowURL}, true
				}
			}
			return Intent{}, false
		}},
		{"time", containsRule("time", Intent{Kind: KindGetTime})},
		{"date", containsRule("date", Intent{Kind: KindGetDate})},
		{"toggle-notebook", containsRule("toggle notebook", Intent{Kind: KindToggleNotebook})},
		{"clear-notebook", containsRule("clear notebook", Intent{Kind: KindClearNotebook})},
		{"list-reminders", containsRule("show my reminders", Intent{Kind: KindListReminders})},
		{"delete-reminder", matchDeleteReminder},
		{"create-reminder", matchCreateReminder},
		{"sleep", func(c string) (Intent, bool) {
			// No lookahead in RE2; the shutdown exclusion is an
			// explicit second predicate.
			if sleepRx.MatchString(c) && !shutdownRx.MatchString(c) {
				return Intent{Kind: KindSystemPower, PowerKind: PowerSleep}, true
			}
			return Intent{}, false
		}},
		{"restart", func(c string) (Intent, bool) {
			if strings.Contains(c, "restart") || strings.Contains(c, "reboot") {
				return Intent{Kind: KindSystemPower, PowerKind: PowerRestart}, true
			}
			return Intent{}, false
		}},
		{"shutdown", func(c string) (Intent, bool) {
			if shutdownRx.MatchString(c) {
				return Intent{Kind: KindSystemPower, PowerKind: PowerShutdown}, true
			}
			return Intent{}, false
		}},
		{"lock", containsRule("lock", Intent{Kind: KindSystemPower, PowerKind: PowerLock})},
		{"open-url", matchOpenURL},
		{"open-app", m.matchOpenApp},
		{"whatsapp", matchWhatsApp},
		{"weather", matchWeather},
		{"news", func(c string) (Intent, bool) {
			if strings.Contains(c, "news") || strings.Contains(c, "headlines") {
				return Intent{Kind: KindGetNews}, true
			}
			return Intent{}, false
		}},
		{"volume", levelRule("volume", KindSetVolume)},
		{"brightness", levelRule("brightness", KindSetBrightness)},
		{"camera", containsRule("camera", Intent{Kind: KindCameraControl, CameraAction: "open"})},
		{"note", matchNote},
		{"code", matchCode},
	}

	return m
}

// Match classifies a normalized clause. Unmatched input falls through
// to KindGeneralQuery carrying the clause text.
func (m *Matcher) Match(clause string) Intent {
	for _, r := range m.rules {
		if in, ok := r.match(clause); ok {
			return in
		}
	}
	return Intent{Kind: KindGeneralQuery, Text: clause}
}

func containsRule(needle string, out Intent) func(string) (Intent, bool) {
	return func(c string) (Intent, bool) {
		if strings.Contains(c, needle) {
			return out, true
		}
		return Intent{}, false
	}
}

func levelRule(needle string, kind Kind) func(string) (Intent, bool) {
	return func(c string) (Intent, bool) {
		if !strings.Contains(c, needle) {
			return Intent{}, false
		}
		in := Intent{Kind: kind}
		if n := numberRx.FindString(c); n != "" {
			v, err := strconv.Atoi(n)
			if err == nil {
				in.Level = v
				in.LevelSet = true
			}
		}
		return in, true
	}
}

func matchDeleteReminder(c string) (Intent, bool) {
	if !strings.Contains(c, "delete my") || !strings.Contains(c, "reminder") {
		return Intent{}, false
	}
	in := Intent{Kind: KindDeleteReminder}
	if mm := deleteForRx.FindStringSubmatch(c); mm != nil {
		in.Task = strings.TrimSpace(mm[1])
	} else if mm := deleteMidRx.FindStringSubmatch(c); mm != nil {
		in.Task = strings.TrimSpace(mm[1])
	}
	return in, true
}

func matchCreateReminder(c string) (Intent, bool) {
	if !reminderRx.MatchString(c) && !reminderAltRx.MatchString(c) {
		return Intent{}, false
	}
	in := Intent{Kind: KindCreateReminder}

	if mm := timeSlotRx.FindStringSubmatch(c); mm != nil {
		in.TimePhrase = strings.TrimSpace(mm[1])
	}
	if mm := taskRx.FindStringSubmatch(c); mm != nil {
		in.Task = strings.TrimSpace(mm[1])
	} else {
		// Phrases like "meeting reminder at 3pm": the task is whatever
		// precedes the reminder trigger word.
		if i := strings.Index(c, "reminder"); i > 0 {
			in.Task = strings.TrimSpace(c[:i])
		} else if i := strings.Index(c, "remind"); i > 0 {
			in.Task = strings.TrimSpace(c[:i])
		}
	}
	return in, true
}

func matchOpenURL(c string) (Intent, bool) {
	if !urlHintRx.MatchString(c) {
		return Intent{}, false
	}
	url := urlRx.FindString(c)
	if url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return Intent{Kind: KindOpenURL, URL: url}, true
}

func (m *Matcher) matchOpenApp(c string) (Intent, bool) {
	hasVerb := false
	for _, v := range []string{"open", "kholo", "khol", "launch", "start", "kholna"} {
		if strings.Contains(c, v) {
			hasVerb = true
			break
		}
	}
	if !hasVerb {
		return Intent{}, false
	}

	in := Intent{Kind: KindOpenApp}
	if mm := openVerbRx.FindStringSubmatch(c); mm != nil {
		in.App = strings.ToLower(strings.TrimSpace(mm[1]))
		in.Query = cleanAppQuery(mm[2])
		return in, true
	}

	// Users may state the target before the verb ("chrome, open"), so
	// fall back to a whole-word registry scan.
	for _, name := range m.appNames {
		nameRx := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b\s*(.*)`)
		if mm := nameRx.FindStringSubmatch(c); mm != nil {
			in.App = name
			in.Query = cleanAppQuery(mm[1])
			return in, true
		}
	}

	// Verb present but no target recognized; the dispatcher turns this
	// into a usage hint.
	return in, true
}

// appQueryStop are connector/verb tokens dropped from the head of an
// open-intent query so "open google and search cats" yields "cats".
var appQueryStop = map[string]bool{
	"and": true, "then": true, "please": true,
	"search": true, "for": true, "find": true, "play": true,
	"open": true, "kholo": true, "khol": true, "kholna": true,
	"launch": true,
}

func cleanAppQuery(q string) string {
	q = strings.TrimLeft(strings.ToLower(strings.TrimSpace(q)), ",.;: ")
	fields := strings.Fields(q)
	for len(fields) > 0 && appQueryStop[fields[0]] {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

func matchWhatsApp(c string) (Intent, bool) {
	if !strings.Contains(c, "whatsapp message") {
		return Intent{}, false
	}
	in := Intent{Kind: KindSendMessage}
	if mm := whatsappRx.FindStringSubmatch(c); mm != nil {
		in.Target = strings.Join(strings.Fields(mm[1]), "")
		in.Body = strings.TrimSpace(mm[2])
	}
	return in, true
}

func matchWeather(c string) (Intent, bool) {
	if !strings.Contains(c, "weather") {
		return Intent{}, false
	}
	in := Intent{Kind: KindGetWeather}
	if mm := cityRx.FindStringSubmatch(c); mm != nil {
		in.City = strings.TrimSpace(mm[1])
	}
	return in, true
}

func matchNote(c string) (Intent, bool) {
	if !strings.Contains(c, "note") {
		return Intent{}, false
	}
	topic := strings.TrimSpace(noteStripRx.ReplaceAllString(c, ""))
	if topic == "" {
		topic = "general note"
	}
	return Intent{Kind: KindGenerateNote, Topic: topic}, true
}

func matchCode(c string) (Intent, bool) {
	mm := codeRx.FindStringSubmatch(c)
	if mm == nil {
		return Intent{}, false
	}
	lang := strings.ToLower(mm[2])
	topic := strings.TrimSpace(mm[3])
	if topic == "" {
		topic = "hello world"
	}
	return Intent{Kind: KindGenerateCode, Language: lang, Topic: topic}, true
}

// ValidatePhone reports whether a messaging target looks like a phone
// number with an optional leading country-code plus.
func ValidatePhone(target string) error {
	ok, _ := regexp.MatchString(`^\+?\d+$`, target)
	if !ok {
		return fmt.Errorf("invalid phone number format: %s", target)
	}
	return nil
}
