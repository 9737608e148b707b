package pipeline

import (
	"fmt"

	"github.com/san-kum/floatsim/internal/model"
	"github.com/san-kum/floatsim/internal/plot"
)

// Result is the response of one platform ready for presentation.
type Result struct {
	Platform    int
	Frequencies model.Frequencies
	RAO         *model.ResponseArray
	Channels    plot.Channels
}

// Extract reads the response of one platform from a model that completed
// case analysis. The frequency grid and the response always agree in length.
func Extract(m model.Model, platform int) (*Result, error) {
	w, rao, err := m.PlatformResponse(platform)
	if err != nil {
		return nil, err
	}
	if _, n := rao.Shape(); n != len(w) {
		return nil, fmt.Errorf("pipeline: %d frequencies for %d response values", len(w), n)
	}
	ch, err := plot.NewChannels(w, rao)
	if err != nil {
		return nil, err
	}
	return &Result{Platform: platform, Frequencies: w, RAO: rao, Channels: ch}, nil
}
