package domain

// FlowEvent is one ordered access within a data-flow signature.
type FlowEvent struct {
	Line   int        `json:"line" yaml:"line"`
	Access AccessKind `json:"access" yaml:"access"`
}

// DataFlowSignature summarizes every access to one variable within one scope,
// folded in source order.
type DataFlowSignature struct {
	Variable string      `json:"variable" yaml:"variable"`
	Scope    string      `json:"scope" yaml:"scope"`
	Events   []FlowEvent `json:"events" yaml:"events"`

	// FirstWriteLine is the line of the first write, 0 when the variable is
	// never written. LastReadLine is the line of the last read, 0 when never
	// read.
	FirstWriteLine int `json:"first_write_line,omitempty" yaml:"first_write_line,omitempty"`
	LastReadLine   int `json:"last_read_line,omitempty" yaml:"last_read_line,omitempty"`
}

// FileDNA is a compact structural and behavioral signature of a file, used as
// a cheap proxy for deeper similarity.
type FileDNA struct {
	FilePath        string              `json:"file_path" yaml:"file_path"`
	DataFlows       []DataFlowSignature `json:"data_flows,omitempty" yaml:"data_flows,omitempty"`
	ComplexityScore float64             `json:"complexity_score" yaml:"complexity_score"`

	// Fingerprint is a fixed-width hex digest over a canonical, sorted
	// serialization of the DNA. Logically identical profiles hash identically
	// regardless of extraction order.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// VariableNames returns the set of variables appearing in the data flows.
func (dna *FileDNA) VariableNames() map[string]struct{} {
	names := make(map[string]struct{}, len(dna.DataFlows))
	for _, sig := range dna.DataFlows {
		names[sig.Variable] = struct{}{}
	}
	return names
}

// IsEmpty reports whether extraction produced no usable signal.
func (dna *FileDNA) IsEmpty() bool {
	return len(dna.DataFlows) == 0 && dna.ComplexityScore == 0 && dna.Fingerprint == ""
}
