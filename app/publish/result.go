// Author: DoItWithASmile (2025). Apache 2.0 License

package publish

// Outcome of reconciling one file.
type Outcome int

const (
	Created Outcome = iota + 1
	Updated
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Skipped:
		return "skipped"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of reconciling one file. Err is set only for
// Failed; non-fatal side-effect failures are logged, not propagated.
type Result struct {
	Path    string  `json:"path"`
	Outcome Outcome `json:"outcome"`
	Err     error   `json:"-"`
}

type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Summary aggregates one publish run for one repository configuration.
type Summary struct {
	ConfigId string    `json:"configId"`
	Owner    string    `json:"owner"`
	Repo     string    `json:"repo"`
	Branch   string    `json:"branch"`
	Created  int       `json:"created"`
	Updated  int       `json:"updated"`
	Skipped  int       `json:"skipped"`
	Failed   int       `json:"failed"`
	Failures []Failure `json:"failures,omitempty"`
}

func (s *Summary) add(r Result) {
	switch r.Outcome {
	case Created:
		s.Created++
	case Updated:
		s.Updated++
	case Skipped:
		s.Skipped++
	case Failed:
		s.Failed++
		reason := "unknown"
		if r.Err != nil {
			reason = r.Err.Error()
		}
		s.Failures = append(s.Failures, Failure{Path: r.Path, Reason: reason})
	}
}
