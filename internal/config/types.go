package config

// Config holds the ordered list of API checks executed in one run.
type Config struct {
	APIs []Step `yaml:"apis"`
}

// Step defines a single declared HTTP check. URL, params values, and the
// payload path may contain {{name}} placeholders resolved against the
// environment store at execution time. Headers are passed through verbatim.
type Step struct {
	Name        string            `yaml:"name"`
	URL         string            `yaml:"url"`
	Method      string            `yaml:"method"`
	Params      map[string]string `yaml:"params,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	PayloadFile string            `yaml:"payload_file,omitempty"`
	SetEnv      map[string]string `yaml:"set_env,omitempty"`
}

// Settings holds the environment file contents: directories, the report
// template path, mail delivery settings, and the seed variables for the
// run's environment store.
type Settings struct {
	PayloadDir       string      `yaml:"payload_dir"`
	ResultDir        string      `yaml:"result_dir"`
	HTMLTemplateFile string      `yaml:"HTML_TEMPLATE_FILE"`
	Email            EmailConfig `yaml:"email"`

	// Vars carries every top-level scalar of the environment file in its
	// string form. It seeds the environment store, so directory paths and
	// ad-hoc chaining seeds (lat, lon, ...) are all reachable as variables.
	Vars map[string]string `yaml:"-"`
}

// EmailConfig holds SMTP settings for delivering the report.
type EmailConfig struct {
	Sender     string `yaml:"sender"`
	Recipient  string `yaml:"recipient"`
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Password   string `yaml:"password"`
}
