package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/IvanBrykalov/cachesim/policy"
)

// MaxAnimatedOps is the largest trace replayed with full recording in
// animated mode; longer traces fall back to sampled recording.
const MaxAnimatedOps = 20_000

// ErrInvalidCapacity is returned when a request's capacity is below 1.
var ErrInvalidCapacity = errors.New("sim: capacity must be > 0")

// ARCConfig holds ARC-specific settings.
type ARCConfig struct {
	// BoundGhosts enables canonical ghost list bounds.
	BoundGhosts bool `yaml:"boundGhosts" json:"boundGhosts"`
}

// Request configures a simulation run.
type Request struct {
	Capacity int      `yaml:"capacity" json:"capacity"`
	Policies []string `yaml:"policies" json:"policies"`

	// Animate requests full step recording for playback.
	Animate bool `yaml:"animate" json:"animate"`
	// SnapshotEvery samples steps in non-animated mode (<= 0 keeps all).
	SnapshotEvery int `yaml:"snapshotEvery" json:"snapshotEvery"`

	TraceText string `yaml:"traceText" json:"traceText"`
	// TraceFile is read into TraceText by LoadRequest when TraceText is empty.
	// Relative paths resolve against the request file's directory.
	TraceFile string `yaml:"traceFile" json:"traceFile,omitempty"`

	ARC ARCConfig `yaml:"arc" json:"arc"`
}

// DefaultRequest returns the defaults applied before a request file is decoded.
func DefaultRequest() Request {
	return Request{
		Capacity:      3,
		Policies:      []string{string(policy.LRU)},
		Animate:       true,
		SnapshotEvery: 1000,
	}
}

// Validate checks the fields that must hold before any replay starts.
func (r Request) Validate() error {
	if r.Capacity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, r.Capacity)
	}
	return nil
}

// PolicyNames resolves the requested identifiers, in order, dropping unknown
// names and duplicates.
func (r Request) PolicyNames() (names []policy.Name, skipped []string) {
	seen := make(map[policy.Name]bool, len(r.Policies))
	for _, raw := range r.Policies {
		n, err := policy.ParseName(raw)
		if err != nil {
			skipped = append(skipped, raw)
			continue
		}
		if seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	return names, skipped
}

// sampleEvery returns the step sampling interval for a trace of nOps.
func (r Request) sampleEvery(nOps int) int {
	if r.SnapshotEvery <= 0 {
		return 1
	}
	if r.Animate && nOps <= MaxAnimatedOps {
		return 1
	}
	return r.SnapshotEvery
}

// LoadRequest reads a YAML (or JSON) request file on top of DefaultRequest.
// Unknown fields are rejected; an empty file yields the defaults.
func LoadRequest(path string) (Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Request{}, fmt.Errorf("reading request: %w", err)
	}

	req := DefaultRequest()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return Request{}, fmt.Errorf("parsing request: %w", err)
	}

	if req.TraceText == "" && req.TraceFile != "" {
		tp := req.TraceFile
		if !filepath.IsAbs(tp) {
			tp = filepath.Join(filepath.Dir(path), tp)
		}
		text, err := os.ReadFile(tp)
		if err != nil {
			return Request{}, fmt.Errorf("reading trace file: %w", err)
		}
		req.TraceText = string(text)
	}
	return req, nil
}
