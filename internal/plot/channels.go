package plot

import (
	"fmt"
	"strings"

	"github.com/san-kum/floatsim/internal/model"
)

// Channel is one named complex response sequence over frequency.
type Channel struct {
	Name       string
	Rotational bool
	Values     []complex128
}

// Channels is the six motion channels of one platform on a shared
// frequency grid in rad/s.
type Channels struct {
	Frequencies []float64
	List        [model.NumDOF]Channel
}

// ChannelName returns the presentation name of a mode, e.g. "Surge_RA".
func ChannelName(d model.DOF) string {
	s := d.String()
	return strings.ToUpper(s[:1]) + s[1:] + "_RA"
}

// NewChannels converts a response array into presentation channels.
func NewChannels(w model.Frequencies, rao *model.ResponseArray) (Channels, error) {
	if rao == nil {
		return Channels{}, fmt.Errorf("plot: nil response array")
	}
	if _, n := rao.Shape(); n != len(w) {
		return Channels{}, fmt.Errorf("plot: %d frequencies for %d response values", len(w), n)
	}
	ch := Channels{Frequencies: append([]float64(nil), w...)}
	for _, d := range model.DOFs {
		ch.List[d] = Channel{
			Name:       ChannelName(d),
			Rotational: d.Rotational(),
			Values:     rao.Mode(d),
		}
	}
	return ch, nil
}
