package intent

// AppEntry describes a launch target for the open intent: either a
// website URL, a set of per-OS launch commands, or both.
//
// To add a website, add an entry with just URL. To add a native app,
// fill the per-OS commands.
type AppEntry struct {
	URL   string
	Win   string
	Mac   string
	Linux string
}

// Apps is the known name registry consulted by the open rule, both for
// the explicit "open <name>" form and for the whole-word fallback scan
// ("chrome, open").
var Apps = map[string]AppEntry{
	"whatsapp": {
		URL:   "https://web.whatsapp.com",
		Win:   "start whatsapp",
		Mac:   "WhatsApp",
		Linux: "whatsapp-desktop",
	},
	"youtube":       {URL: "https://www.youtube.com"},
	"facebook":      {URL: "https://www.facebook.com"},
	"google":        {URL: "https://www.google.com"},
	"twitter":       {URL: "https://www.twitter.com"},
	"instagram":     {URL: "https://www.instagram.com"},
	"github":        {URL: "https://www.github.com"},
	"linkedin":      {URL: "https://www.linkedin.com"},
	"reddit":        {URL: "https://www.reddit.com"},
	"stackoverflow": {URL: "https://stackoverflow.com"},
	"gmail":         {URL: "https://mail.google.com"},
	"netflix":       {URL: "https://www.netflix.com"},
	"wikipedia":     {URL: "https://en.wikipedia.org/wiki/Main_Page"},
	"calculator": {
		Win:   "calc",
		Mac:   "Calculator",
		Linux: "gnome-calculator",
	},
	"vscode": {
		Win:   "code",
		Mac:   "Visual Studio Code",
		Linux: "code",
	},
	"chrome": {
		Win:   "chrome",
		Mac:   "Google Chrome",
		Linux: "google-chrome",
	},
	"edge": {
		Win:   "msedge",
		Mac:   "Microsoft Edge",
		Linux: "microsoft-edge",
	},
	"firefox": {
		Win:   "firefox",
		Mac:   "Firefox",
		Linux: "firefox",
	},
	"notepad": {
		Win:   "notepad",
		Mac:   "TextEdit",
		Linux: "gedit",
	},
}
