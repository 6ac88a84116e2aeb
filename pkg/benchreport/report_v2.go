package benchreport

import (
	"encoding/json"
	"io"
	"runtime"
	"time"

	"github.com/google/uuid"
)

const Version = "2"

type ReportEnv struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	CPUModel      string `json:"cpu_model"`
	CPUNumLogical int    `json:"cpu_num_logical"`
}

type ReportParams struct {
	Executable    string    `json:"executable"`
	Launcher      []string  `json:"launcher,omitempty"`
	Maps          []string  `json:"maps"`
	Weights       []float64 `json:"weights"`
	Threads       []int     `json:"threads"`
	NumTests      int       `json:"num_tests"`
	MaxExpansions uint64    `json:"max_exps,omitempty"`
}

type SweepReport struct {
	Version         string        `json:"version"`
	ID              string        `json:"id"`
	StartedRFC3339  string        `json:"started_rfc3339"`
	FinishedRFC3339 string        `json:"finished_rfc3339"`
	Env             ReportEnv     `json:"env"`
	Params          ReportParams  `json:"params"`
	Groups          []GroupReport `json:"groups"`
}

// NewSweepReport stamps a new report with a random id and the host environment.
func NewSweepReport(params ReportParams, cpuModel string, started time.Time) *SweepReport {
	return &SweepReport{
		Version:        Version,
		ID:             uuid.NewString(),
		StartedRFC3339: started.Format(time.RFC3339),
		Env: ReportEnv{
			OS:            runtime.GOOS,
			Arch:          runtime.GOARCH,
			CPUModel:      cpuModel,
			CPUNumLogical: runtime.NumCPU(),
		},
		Params: params,
	}
}

func (r *SweepReport) Finish(at time.Time) {
	r.FinishedRFC3339 = at.Format(time.RFC3339)
}

func (r *SweepReport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func ReadJSON(rd io.Reader) (*SweepReport, error) {
	var r SweepReport
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}
