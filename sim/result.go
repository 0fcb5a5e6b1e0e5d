package sim

import (
	"github.com/oklog/ulid/v2"

	"github.com/IvanBrykalov/cachesim/policy"
	"github.com/IvanBrykalov/cachesim/trace"
)

// Step is the state captured right after one operation was applied.
type Step struct {
	Index int          `json:"index"`
	Op    trace.OpType `json:"op"`
	Key   string       `json:"key"`
	Value string       `json:"value"`

	// Hit is meaningful for GET only; PUT steps are never hits.
	Hit bool `json:"hit"`
	// Evicted is the key a PUT pushed out, empty when none.
	Evicted string `json:"evicted,omitempty"`

	Cache []policy.Entry `json:"cache"`
	Meta  policy.Meta    `json:"meta"`
}

// Stats aggregates a whole replay.
type Stats struct {
	Hits      int     `json:"hits"`
	Misses    int     `json:"misses"`
	HitRatio  float64 `json:"hitRatio"`
	Evictions int     `json:"evictions"`
}

// hitRatio is hits/(hits+misses), or 0 when no GET was replayed.
func (s Stats) hitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Result is the outcome of replaying one trace against one policy.
type Result struct {
	Policy   policy.Name `json:"policy"`
	Capacity int         `json:"capacity"`
	Steps    []Step      `json:"steps"`
	Stats    Stats       `json:"stats"`
}

// Response is the envelope handed to presentation layers. Exactly one of
// Results and Error is set.
type Response struct {
	RunID   string   `json:"runId"`
	Results []Result `json:"results"`
	Error   string   `json:"error,omitempty"`
}

// NewResponse wraps the outcome of Run under a fresh run identifier.
func NewResponse(results []Result, err error) Response {
	resp := Response{RunID: ulid.Make().String()}
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	if results == nil {
		results = []Result{}
	}
	resp.Results = results
	return resp
}
