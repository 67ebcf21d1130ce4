package models

// LearnedPattern is one vendor association derived from a user correction.
// Target is a GL account code for classification corrections or a match
// reference for reconciliation corrections. Patterns are only ever written
// through the explicit correction path, never by a scoring pass.
type LearnedPattern struct {
	VendorKey    string `yaml:"vendor_key"`
	Target       string `yaml:"target"`
	Observations int    `yaml:"observations"`
}

// PatternsConfig is the YAML shape of the learned-pattern file.
type PatternsConfig struct {
	Patterns []LearnedPattern `yaml:"patterns"`
}
