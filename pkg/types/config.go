package types

// Dialect selects the output markup the upstream converter emits.
type Dialect string

const (
	// DialectMarkdown is plain Markdown, the default.
	DialectMarkdown Dialect = "markdown"
	// DialectWiki is TiddlyWiki markup.
	DialectWiki Dialect = "wiki"
	// DialectMadoko is Madoko markup.
	DialectMadoko Dialect = "mdk"
	// DialectQuarto is Quarto markdown.
	DialectQuarto Dialect = "qmd"
)

// ConversionConfig holds one conversion run's options, gathered from
// command-line flags. Paths are resolved against the input file's
// directory by convert.Resolve before use.
type ConversionConfig struct {
	// InputPath is the PPTX file to convert. Must reference an existing
	// regular file.
	InputPath string `json:"input_path" yaml:"input_path"`

	// TitlePath is an optional custom slide-title override file.
	TitlePath string `json:"title_path,omitempty" yaml:"title_path,omitempty"`

	// OutputPath is the Markdown output file (default <stem>/index.md).
	OutputPath string `json:"output_path" yaml:"output_path"`

	// ImageDir is the directory for extracted images (default <stem>/img).
	ImageDir string `json:"image_dir" yaml:"image_dir"`

	// ImageWidth is the maximum image width in pixels (0 = unlimited).
	ImageWidth int `json:"image_width,omitempty" yaml:"image_width,omitempty"`

	// DisableImage skips image extraction entirely.
	DisableImage bool `json:"disable_image" yaml:"disable_image"`

	// DisableEscaping skips special-character escaping.
	DisableEscaping bool `json:"disable_escaping" yaml:"disable_escaping"`

	// DisableNotes skips presenter notes.
	DisableNotes bool `json:"disable_notes" yaml:"disable_notes"`

	// DisableWMF leaves WMF images unconverted by the upstream converter.
	// Defaults to true: the wrapper rasterizes WMF assets itself after
	// conversion.
	DisableWMF bool `json:"disable_wmf" yaml:"disable_wmf"`

	// DisableColor skips HTML color tags.
	DisableColor bool `json:"disable_color" yaml:"disable_color"`

	// EnableSlides inserts slide-delimiter markers (---).
	EnableSlides bool `json:"enable_slides" yaml:"enable_slides"`

	// TryMultiColumn enables the slower multi-column slide detection.
	TryMultiColumn bool `json:"try_multi_column" yaml:"try_multi_column"`

	// MinBlockSize is the minimum character count for a text block
	// (0 = upstream default).
	MinBlockSize int `json:"min_block_size,omitempty" yaml:"min_block_size,omitempty"`

	// Dialect selects the output markup.
	Dialect Dialect `json:"dialect" yaml:"dialect"`

	// Page restricts conversion to a single slide number (0 = all slides).
	Page int `json:"page,omitempty" yaml:"page,omitempty"`

	// KeepSimilarTitles preserves near-duplicate titles, appending a
	// continuation marker instead of merging.
	KeepSimilarTitles bool `json:"keep_similar_titles" yaml:"keep_similar_titles"`
}

// ProvisionMode selects how the upstream converter package is installed.
type ProvisionMode string

const (
	// ModeDev installs the converter into a project-local virtual
	// environment.
	ModeDev ProvisionMode = "dev"
	// ModeSystem installs the converter as a globally invokable tool.
	ModeSystem ProvisionMode = "system"
)

// ProvisionConfig holds settings for the runtime provisioner.
type ProvisionConfig struct {
	// Mode is dev or system.
	Mode ProvisionMode `json:"mode" yaml:"mode"`

	// Force permits reinstalling over an existing installation.
	Force bool `json:"force" yaml:"force"`

	// VenvDir is the virtual environment directory for dev mode
	// (default ".venv").
	VenvDir string `json:"venv_dir,omitempty" yaml:"venv_dir,omitempty"`
}
