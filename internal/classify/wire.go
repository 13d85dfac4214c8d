package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/backmassage/fixbatch/internal/fixation"
	"github.com/backmassage/fixbatch/internal/gaze"
)

// --- classifier JSON wire types ---

type request struct {
	Options Options              `json:"options"`
	Data    map[string][]float64 `json:"data"`
}

type response struct {
	OK      bool         `json:"ok"`
	Reason  string       `json:"reason"`
	Columns []wireColumn `json:"columns"`
}

type wireColumn struct {
	Name   string     `json:"name"`
	Kind   string     `json:"kind"`
	Values []*float64 `json:"values"`
}

// EncodeRequest builds the stdin payload for one recording. Data keys are
// the recording column names; only present channels are included.
func EncodeRequest(ts *gaze.TimeSeries, opts Options) ([]byte, error) {
	data := map[string][]float64{gaze.ColTime: ts.Time}
	for _, ch := range ts.Channels() {
		data[ch.XName] = ch.Channel.X
		data[ch.YName] = ch.Channel.Y
	}
	return json.Marshal(request{Options: opts, Data: data})
}

// DecodeResponse converts classifier stdout into a fixation set. An explicit
// ok:false answer is reported as ErrNotClassified wrapping the reason.
// Exported for testing without a classifier process.
func DecodeResponse(out []byte) (fixation.Set, error) {
	var raw response
	if err := json.Unmarshal(out, &raw); err != nil {
		return fixation.Set{}, fmt.Errorf("parse classifier JSON: %w", err)
	}
	if !raw.OK {
		reason := raw.Reason
		if reason == "" {
			reason = "no reason given"
		}
		return fixation.Set{}, fmt.Errorf("%w: %s", ErrNotClassified, reason)
	}
	if len(raw.Columns) == 0 {
		return fixation.Set{}, errors.New("classifier reported success without columns")
	}

	cols := make([]fixation.Column, len(raw.Columns))
	for i, wc := range raw.Columns {
		kind, err := fixation.ParseKind(wc.Kind)
		if err != nil {
			return fixation.Set{}, fmt.Errorf("column %q: %w", wc.Name, err)
		}
		vals := make([]float64, len(wc.Values))
		for j, v := range wc.Values {
			if v == nil {
				vals[j] = math.NaN()
			} else {
				vals[j] = *v
			}
		}
		cols[i] = fixation.Column{Name: wc.Name, Kind: kind, Values: vals}
	}
	return fixation.NewSet(cols)
}
