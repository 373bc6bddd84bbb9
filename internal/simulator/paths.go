package simulator

import (
	"fmt"
	"strings"
)

// NodePaths locates inputs and results inside the model tree.
type NodePaths struct {
	FeedStream    string
	ExpanderBlock string
}

func DefaultNodePaths() NodePaths {
	return NodePaths{FeedStream: "FEED", ExpanderBlock: "EXPANDER"}
}

func (n NodePaths) stream(parts ...string) string {
	return `\Data\Streams\` + n.FeedStream + `\` + strings.Join(parts, `\`)
}

func (n NodePaths) block(parts ...string) string {
	return `\Data\Blocks\` + n.ExpanderBlock + `\` + strings.Join(parts, `\`)
}

func (n NodePaths) TotalFlow() string { return n.stream("Input", "TOTFLOW", "MIXED") }
func (n NodePaths) FeedPressure() string { return n.stream("Input", "PRES", "MIXED") }
func (n NodePaths) FeedTemperature() string { return n.stream("Input", "TEMP", "MIXED") }
func (n NodePaths) ComponentFlow(id string) string {
	return n.stream("Input", "FLOW", "MIXED", id)
}
func (n NodePaths) DischargePressure() string { return n.block("Input", "PRES") }
func (n NodePaths) IsentropicEff() string { return n.block("Input", "SEFF") }

func (n NodePaths) BrakePower() string { return n.block("Output", "BRAKE_POWER") }
func (n NodePaths) OutletPressure() string { return n.block("Output", "POC") }
func (n NodePaths) OutletTemperature() string { return n.block("Output", "TOC") }
func (n NodePaths) InletPressure() string { return n.block("Output", "PIN") }
func (n NodePaths) PressureRatio() string { return n.block("Output", "PRES_RATIO") }
func (n NodePaths) Efficiency() string { return n.block("Output", "EFF_ISEN") }

// nodeValue is one input write.
type nodeValue struct {
	path  string
	value float64
}

func (v nodeValue) String() string {
	return fmt.Sprintf("%s=%g", v.path, v.value)
}

// MPa to bar, the pressure unit of the model.
const barPerMPa = 10.0

// inputs maps parameters onto model input nodes. Pressures are converted to
// bar, efficiency to a fraction and composition to mole fractions.
func (n NodePaths) inputs(p Parameters) []nodeValue {
	values := []nodeValue{
		{n.TotalFlow(), p.GasFlowRate},
		{n.FeedPressure(), p.InletPressure * barPerMPa},
		{n.FeedTemperature(), p.InletTemperature},
		{n.DischargePressure(), p.OutletPressure * barPerMPa},
		{n.IsentropicEff(), p.Efficiency / 100},
	}
	total := p.GasComposition.Total()
	for _, c := range p.GasComposition.Components() {
		values = append(values, nodeValue{n.ComponentFlow(c.ID), c.Percent / total})
	}
	return values
}
