package cache

// Keyer derives cache keys for the pipeline stages.
type Keyer interface {
	// ScanKey keys a scanned model by language and source digest.
	ScanKey(language, digest string) string

	// AnalysisKey keys an analysis result by model hash and options.
	AnalysisKey(modelHash string, opts AnalysisKeyOpts) string

	// RenderKey keys a rendered graph by model hash and render options.
	RenderKey(modelHash string, opts RenderKeyOpts) string
}

// AnalysisKeyOpts holds everything besides the model that changes an
// analysis result.
type AnalysisKeyOpts struct {
	Language       string `json:"language"`
	Iterative      bool   `json:"iterative"`
	ComponentScope bool   `json:"component_scope"`
	MaxCycles      int    `json:"max_cycles"`
	SettingsHash   string `json:"settings_hash"`
}

// RenderKeyOpts holds everything besides the model that changes a render.
type RenderKeyOpts struct {
	Format     string `json:"format"`
	Detailed   bool   `json:"detailed"`
	CyclesOnly bool   `json:"cycles_only"`
}

// DefaultKeyer hashes key components into "stage:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ScanKey implements Keyer.
func (DefaultKeyer) ScanKey(language, digest string) string {
	return hashKey("scan", language, digest)
}

// AnalysisKey implements Keyer.
func (DefaultKeyer) AnalysisKey(modelHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", modelHash, opts)
}

// RenderKey implements Keyer.
func (DefaultKeyer) RenderKey(modelHash string, opts RenderKeyOpts) string {
	return hashKey("render", modelHash, opts)
}

var _ Keyer = DefaultKeyer{}
