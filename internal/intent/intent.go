// Package intent classifies a normalized clause into exactly one of a
// closed set of intents using an ordered rule cascade. Matching is a
// pure function of the clause and the static rule table; there is no
// learned model anywhere in this path.
package intent

// Kind identifies which action the user wants the assistant to take.
type Kind string

const (
	KindShowURL        Kind = "show_url"
	KindGetTime        Kind = "get_time"
	KindGetDate        Kind = "get_date"
	KindToggleNotebook Kind = "toggle_notebook"
	KindClearNotebook  Kind = "clear_notebook"
	KindListReminders  Kind = "list_reminders"
	KindDeleteReminder Kind = "delete_reminder"
	KindCreateReminder Kind = "create_reminder"
	KindSystemPower    Kind = "system_power"
	KindOpenURL        Kind = "open_url"
	KindOpenApp        Kind = "open_app"
	KindSendMessage    Kind = "send_message"
	KindGetWeather     Kind = "get_weather"
	KindGetNews        Kind = "get_news"
	KindSetVolume      Kind = "set_volume"
	KindSetBrightness  Kind = "set_brightness"
	KindCameraControl  Kind = "camera_control"
	KindGenerateNote   Kind = "generate_note"
	KindGenerateCode   Kind = "generate_code"
	KindGeneralQuery   Kind = "general_query"
)

// Power action slot values for KindSystemPower.
const (
	PowerSleep    = "sleep"
	PowerRestart  = "restart"
	PowerShutdown = "shutdown"
	PowerLock     = "lock"
)

// Intent is the resolved classification plus the slots its rule
// extracted. Only the slots relevant to the Kind are populated.
type Intent struct {
	Kind Kind

	// KindSystemPower
	PowerKind string

	// KindOpenURL
	URL string

	// KindOpenApp
	App   string
	Query string

	// KindSendMessage
	Target string
	Body   string

	// KindGetWeather
	City string

	// KindSetVolume / KindSetBrightness. LevelSet reports whether a
	// number was actually present in the clause.
	Level    int
	LevelSet bool

	// KindCameraControl
	CameraAction string

	// KindGenerateNote / KindGenerateCode
	Topic    string
	Language string

	// KindCreateReminder / KindDeleteReminder. TimePhrase may be empty
	// when no time token was found; callers must surface a
	// "please specify a time" outcome, not an error.
	Task       string
	TimePhrase string

	// KindGeneralQuery
	Text string
}
