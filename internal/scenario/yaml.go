package scenario

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ruleSetDoc mirrors RuleSet with YAML field tags.
type ruleSetDoc struct {
	DropPackets        map[uint16]float64 `yaml:"drop_packets"`
	ResponseDelays     map[uint16]float64 `yaml:"response_delays"`
	MalformedPackets   map[uint16]bool    `yaml:"malformed_packets"`
	InvalidFieldValues map[uint16]bool    `yaml:"invalid_field_values"`
	PartialResponses   map[uint16]bool    `yaml:"partial_responses"`
	FirmwareVersion    *FirmwareVersion   `yaml:"firmware_version"`
	SendUnhandled      *bool              `yaml:"send_unhandled"`
}

// LoadRuleSetFile reads a single RuleSet from a YAML document: the
// format used for global scenario seeding at startup.
func LoadRuleSetFile(path string) (RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, errors.Wrapf(err, "reading scenario file %s", path)
	}

	var doc ruleSetDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RuleSet{}, errors.Wrapf(err, "parsing scenario file %s", path)
	}

	return RuleSet{
		DropPackets:        doc.DropPackets,
		ResponseDelays:     doc.ResponseDelays,
		MalformedPackets:   doc.MalformedPackets,
		InvalidFieldValues: doc.InvalidFieldValues,
		PartialResponses:   doc.PartialResponses,
		FirmwareVersion:    doc.FirmwareVersion,
		SendUnhandled:      doc.SendUnhandled,
	}, nil
}
