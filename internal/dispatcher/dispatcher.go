// Package dispatcher is the orchestration layer: it normalizes an
// utterance, classifies it, executes the matched intent against the
// configured capabilities and persists the exchange in the session
// log. Collaborator failures become user-facing response strings; only
// persistence failures propagate as errors to the transport layer.
package dispatcher

import (
	"context"
	"fmt"
	"net/url"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/majordomo-ai/majordomo/internal/capability"
	"github.com/majordomo-ai/majordomo/internal/intent"
	"github.com/majordomo-ai/majordomo/internal/model"
	"github.com/majordomo-ai/majordomo/internal/nlp"
	"github.com/majordomo-ai/majordomo/internal/scheduler"
	"github.com/majordomo-ai/majordomo/internal/state"
	"github.com/majordomo-ai/majordomo/internal/store"
)

// Capabilities bundles the optional external collaborators. Any field
// may be nil; the dispatcher answers with a configuration hint instead
// of calling through.
type Capabilities struct {
	Weather    capability.Weather
	News       capability.News
	Completion capability.Completion
	Notifier   capability.Notifier
	System     capability.System
	Audio      capability.Audio
	Display    capability.Display
	Launcher   capability.AppLauncher
	Browser    capability.Browser
	Camera     capability.Camera
}

// Dispatcher routes classified intents to their handlers.
type Dispatcher struct {
	norm        *nlp.Normalizer
	matcher     *intent.Matcher
	store       store.Store
	sched       *scheduler.Scheduler
	proc        *state.Process
	caps        Capabilities
	defaultCity string
	log         zerolog.Logger

	// clock is injectable for tests; defaults to time.Now.
	clock func() time.Time
}

// New wires a Dispatcher. defaultCity backs weather queries that name
// no city.
func New(st store.Store, sched *scheduler.Scheduler, proc *state.Process, caps Capabilities, wakeName, defaultCity string, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		norm:        nlp.NewNormalizer(wakeName),
		matcher:     intent.NewMatcher(wakeName),
		store:       st,
		sched:       sched,
		proc:        proc,
		caps:        caps,
		defaultCity: defaultCity,
		log:         log,
		clock:       time.Now,
	}
}

// Handle interprets one raw utterance for the user and returns the
// response text. The exchange is appended to the session log before
// returning; a failed append is the only error path.
func (d *Dispatcher) Handle(ctx context.Context, userID, raw string) (string, error) {
	clause := d.norm.Normalize(raw)
	in := d.matcher.Match(clause)

	prior := d.priorContext(ctx, userID, clause)
	response := d.execute(ctx, userID, clause, in, prior)

	if err := d.store.Sessions().Append(ctx, &model.SessionEntry{
		UserID:    userID,
		Query:     clause,
		Response:  response,
		Timestamp: d.clock(),
	}); err != nil {
		d.log.Error().Err(err).Str("user", userID).Msg("session append failed")
		return "", err
	}

	d.log.Debug().Str("user", userID).Str("intent", string(in.Kind)).Msg("utterance handled")
	return response, nil
}

// priorContext fetches the user's previous exchange when the clause
// refers back to it ("what was my previous question"). A lookup
// failure degrades to no context rather than failing the request.
func (d *Dispatcher) priorContext(ctx context.Context, userID, clause string) string {
	if !strings.Contains(clause, "previous") && !strings.Contains(clause, "what was") {
		return ""
	}
	last, err := d.store.Sessions().Last(ctx, userID)
	if err != nil {
		if err != model.ErrNotFound {
			d.log.Warn().Err(err).Str("user", userID).Msg("session lookup failed")
		}
		return ""
	}
	return fmt.Sprintf("Previous query: %s\nPrevious response: %s", last.Query, last.Response)
}

func (d *Dispatcher) execute(ctx context.Context, userID, clause string, in intent.Intent, prior string) string {
	switch in.Kind {
	case intent.KindShowURL:
		return d.showURL()
	case intent.KindGetTime:
		now := d.clock()
		return fmt.Sprintf("The current time is %s on %s.",
			now.Format("03:04 PM"), now.Format("January 02, 2006"))
	case intent.KindGetDate:
		return fmt.Sprintf("Today's date is %s.", d.clock().Format("January 02, 2006"))
	case intent.KindToggleNotebook:
		return "Toggling notebook visibility."
	case intent.KindClearNotebook:
		return "Clearing notebook content."
	case intent.KindListReminders:
		return d.listReminders(ctx, userID)
	case intent.KindDeleteReminder:
		return d.deleteReminder(ctx, userID, in)
	case intent.KindCreateReminder:
		return d.createReminder(ctx, userID, clause, in)
	case intent.KindSystemPower:
		return d.systemPower(in.PowerKind)
	case intent.KindOpenURL:
		return d.openURL(in.URL)
	case intent.KindOpenApp:
		return d.openApp(in.App, in.Query)
	case intent.KindSendMessage:
		return d.sendMessage(in.Target, in.Body)
	case intent.KindGetWeather:
		return d.weather(ctx, in.City)
	case intent.KindGetNews:
		return d.news(ctx)
	case intent.KindSetVolume:
		return d.setVolume(in)
	case intent.KindSetBrightness:
		return d.setBrightness(in)
	case intent.KindCameraControl:
		return d.cameraControl()
	case intent.KindGenerateNote:
		return d.generateNote(ctx, in.Topic, prior)
	case intent.KindGenerateCode:
		return d.generateCode(ctx, in.Language, in.Topic)
	default:
		return d.generalQuery(ctx, in.Text, prior)
	}
}

func (d *Dispatcher) showURL() string {
	u := d.proc.SelfURL()
	if u == "" {
		return "The assistant URL is not available yet; the server has not finished starting."
	}
	return fmt.Sprintf("Majordomo is running at: %s\n\nTo access it, open this URL in your browser:\n%s", u, u)
}

func (d *Dispatcher) listReminders(ctx context.Context, userID string) string {
	rs, err := d.sched.List(ctx, userID)
	if err != nil {
		d.log.Error().Err(err).Msg("reminder list failed")
		return fmt.Sprintf("Error listing reminders: %v", err)
	}
	if len(rs) == 0 {
		return "No reminders found."
	}
	var b strings.Builder
	b.WriteString("Your reminders:")
	for _, r := range rs {
		fmt.Fprintf(&b, "\n- %s at %s", r.Task, r.DueDisplay)
	}
	return b.String()
}

func (d *Dispatcher) deleteReminder(ctx context.Context, userID string, in intent.Intent) string {
	if in.Task == "" {
		return "Please specify the task to delete (e.g., 'delete my lecture reminder')."
	}
	n, err := d.sched.Delete(ctx, userID, in.Task)
	if err != nil {
		d.log.Error().Err(err).Msg("reminder delete failed")
		return fmt.Sprintf("Error deleting reminder: %v", err)
	}
	if n == 0 {
		return fmt.Sprintf("No reminder found for '%s'.", in.Task)
	}
	return fmt.Sprintf("Reminder for '%s' deleted.", in.Task)
}

func (d *Dispatcher) createReminder(ctx context.Context, userID, clause string, in intent.Intent) string {
	if in.TimePhrase == "" {
		return "Please specify a time (e.g., 'set reminder for meeting at 3pm')."
	}
	task := in.Task
	if task == "" {
		task = "reminder"
	}
	due, err := nlp.ParseTime(in.TimePhrase, d.clock(), strings.Contains(clause, "tomorrow"))
	if err != nil {
		return "Invalid time format. Use '3pm', '11:00 AM tomorrow', etc."
	}
	r, err := d.sched.Create(ctx, userID, task, due)
	if err != nil {
		if scheduler.IsValidationError(err) {
			return "Reminder time is in the past. Please specify a future time."
		}
		d.log.Error().Err(err).Msg("reminder create failed")
		return fmt.Sprintf("Error setting reminder: %v", err)
	}
	return fmt.Sprintf("One-time reminder set for '%s' at %s.", task, r.DueDisplay)
}

func (d *Dispatcher) systemPower(kind string) string {
	if d.caps.System == nil {
		return "System control is not available."
	}
	if err := d.caps.System.Perform(kind); err != nil {
		return fmt.Sprintf("Error performing %s: %v", kind, err)
	}
	switch kind {
	case intent.PowerSleep:
		return "System is entering sleep mode."
	case intent.PowerRestart:
		return "System is restarting."
	case intent.PowerShutdown:
		return "System is shutting down."
	case intent.PowerLock:
		return "System is locked."
	}
	return "Done."
}

func (d *Dispatcher) openURL(target string) string {
	if target == "" {
		return "Invalid URL format. Use 'open https://example.com' or 'open www.example.com'."
	}
	if d.caps.Browser == nil {
		return "Browser control is not available."
	}
	if err := d.caps.Browser.OpenURL(target); err != nil {
		return fmt.Sprintf("Error opening URL: %v", err)
	}
	return fmt.Sprintf("Opening %s in browser.", target)
}

func (d *Dispatcher) openApp(app, query string) string {
	if app == "" {
		return "Invalid open command format. Use 'open <app/website> [optional query]'."
	}
	entry, ok := intent.Apps[app]
	if !ok {
		return fmt.Sprintf("Application or website '%s' not supported.", app)
	}

	if entry.URL != "" {
		if d.caps.Browser == nil {
			return "Browser control is not available."
		}
		target := entry.URL
		if query != "" {
			switch app {
			case "youtube":
				target = entry.URL + "/results?search_query=" + url.QueryEscape(query)
			case "google":
				target = entry.URL + "/search?q=" + url.QueryEscape(query)
			case "wikipedia":
				target = "https://en.wikipedia.org/w/index.php?search=" + url.QueryEscape(query)
			}
		}
		if err := d.caps.Browser.OpenURL(target); err != nil {
			return fmt.Sprintf("Error opening %s: %v", app, err)
		}
		if target != entry.URL {
			return fmt.Sprintf("Opening %s and searching for '%s'.", app, query)
		}
		return fmt.Sprintf("Opening %s in browser.", app)
	}

	if d.caps.Launcher == nil {
		return "Application launching is not available."
	}
	cmd := launchCommand(entry)
	if cmd == "" {
		return fmt.Sprintf("'%s' has no launch command for this platform.", app)
	}
	// Browsers get pointed at the assistant UI when it is up.
	var args []string
	if self := d.proc.SelfURL(); self != "" && (app == "chrome" || app == "edge" || app == "firefox") {
		args = append(args, self)
	}
	if err := d.caps.Launcher.Launch(cmd, args...); err != nil {
		return fmt.Sprintf("Error opening %s: %v", app, err)
	}
	if len(args) > 0 {
		return fmt.Sprintf("Opening %s with the assistant interface.", app)
	}
	return fmt.Sprintf("Opening %s.", app)
}

func launchCommand(e intent.AppEntry) string {
	switch runtime.GOOS {
	case "windows":
		return e.Win
	case "darwin":
		return e.Mac
	default:
		return e.Linux
	}
}

func (d *Dispatcher) sendMessage(target, body string) string {
	if target == "" || body == "" {
		return "I couldn't understand the phone number or message. Please say, 'send a whatsapp message to [phone number with country code] saying [your message]'."
	}
	if err := intent.ValidatePhone(target); err != nil {
		return fmt.Sprintf("Invalid phone number format: %s. Please include the country code (e.g., +91).", target)
	}
	if d.caps.Browser == nil {
		return "Browser control is not available."
	}
	wa := "https://web.whatsapp.com/send?phone=" + target + "&text=" + url.QueryEscape(body)
	if err := d.caps.Browser.OpenURL(wa); err != nil {
		return fmt.Sprintf("Error opening WhatsApp: %v", err)
	}
	return fmt.Sprintf("Opening WhatsApp to send a message to %s. The message box will be focused; press Enter to send.", target)
}

func (d *Dispatcher) weather(ctx context.Context, city string) string {
	if d.caps.Weather == nil {
		return "Weather API key not configured."
	}
	if city == "" {
		city = d.defaultCity
	}
	desc, err := d.caps.Weather.Current(ctx, city)
	if err != nil {
		d.log.Warn().Err(err).Str("city", city).Msg("weather lookup failed")
		return fmt.Sprintf("Error fetching weather: %v", err)
	}
	return desc
}

func (d *Dispatcher) news(ctx context.Context) string {
	if d.caps.News == nil {
		return "News API key not configured."
	}
	heads, err := d.caps.News.TopHeadlines(ctx, 3)
	if err != nil {
		d.log.Warn().Err(err).Msg("news fetch failed")
		return fmt.Sprintf("Error fetching news: %v", err)
	}
	if len(heads) == 0 {
		return "No news available."
	}
	return "Top headlines: " + strings.Join(heads, " | ")
}

func (d *Dispatcher) setVolume(in intent.Intent) string {
	if d.caps.Audio == nil {
		return "Volume control is not available."
	}
	level := 50
	if in.LevelSet {
		level = clampPercent(in.Level)
	}
	if err := d.caps.Audio.SetVolume(level); err != nil {
		return fmt.Sprintf("Error setting volume: %v", err)
	}
	return fmt.Sprintf("Volume set to %d%%.", level)
}

func (d *Dispatcher) setBrightness(in intent.Intent) string {
	if d.caps.Display == nil {
		return "Brightness control is not available."
	}
	level := 50
	if in.LevelSet {
		level = clampPercent(in.Level)
	}
	if err := d.caps.Display.SetBrightness(level); err != nil {
		return fmt.Sprintf("Error setting brightness: %v", err)
	}
	return fmt.Sprintf("Brightness set to %d%%.", level)
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (d *Dispatcher) cameraControl() string {
	if d.caps.Camera == nil {
		return "Camera is not available."
	}
	if !d.proc.StartCamera() {
		return "Camera is already active."
	}
	if err := d.caps.Camera.Start(); err != nil {
		d.proc.StopCamera()
		return fmt.Sprintf("Error opening camera: %v", err)
	}
	return "Camera opened. Press 'c' to capture, 'q' to quit."
}

func (d *Dispatcher) generateNote(ctx context.Context, topic, prior string) string {
	if d.caps.Completion == nil {
		return "Note generation is unavailable. Please check the completion model configuration."
	}
	prompt := fmt.Sprintf("Summarize key information about %s in a concise note format.", topic)
	if prior != "" {
		prompt = prior + "\n\n" + prompt
	}
	text, err := d.caps.Completion.Complete(ctx, prompt)
	if err != nil {
		d.log.Warn().Err(err).Msg("note generation failed")
		return fmt.Sprintf("Error generating note: %v", err)
	}
	return text
}

func (d *Dispatcher) generateCode(ctx context.Context, language, topic string) string {
	if d.caps.Completion == nil {
		return "Code generation is unavailable. Please check the completion model configuration."
	}
	prompt := fmt.Sprintf(
		"Write a complete, runnable %s program for: %s. Include brief comments and no extra prose.",
		language, topic,
	)
	text, err := d.caps.Completion.Complete(ctx, prompt)
	if err != nil {
		d.log.Warn().Err(err).Msg("code generation failed")
		return fmt.Sprintf("Error generating %s code: %v", language, err)
	}
	return text
}

func (d *Dispatcher) generalQuery(ctx context.Context, text, prior string) string {
	if d.caps.Completion == nil {
		return "General query support is unavailable. Please check the completion model configuration."
	}
	prompt := fmt.Sprintf("Summarize key information about %s in a concise format.", text)
	if prior != "" {
		prompt = prior + "\n\n" + prompt
	}
	out, err := d.caps.Completion.Complete(ctx, prompt)
	if err != nil {
		d.log.Warn().Err(err).Msg("general query failed")
		return fmt.Sprintf("Error processing query: %v", err)
	}
	return out
}
