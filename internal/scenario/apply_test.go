package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldDropBoundaryProbabilities(t *testing.T) {
	assert.False(t, ShouldDrop(MergedRules{}, 101))
	assert.True(t, ShouldDrop(MergedRules{DropPackets: map[uint16]float64{101: 1.0}}, 101))
	assert.False(t, ShouldDrop(MergedRules{DropPackets: map[uint16]float64{101: 0.0}}, 101))
}

func TestApplyPartialTruncatesWithinBounds(t *testing.T) {
	m := MergedRules{PartialResponses: map[uint16]bool{503: true}}
	responses := [][]byte{{1}, {2}, {3}, {4}}

	for i := 0; i < 50; i++ {
		out := ApplyPartial(m, 503, responses)
		assert.LessOrEqual(t, len(out), len(responses))
	}
}

func TestApplyPartialNoOpWhenNotConfigured(t *testing.T) {
	responses := [][]byte{{1}, {2}}
	out := ApplyPartial(MergedRules{}, 503, responses)
	assert.Equal(t, responses, out)
}

func TestApplyMalformedShortensPayloads(t *testing.T) {
	m := MergedRules{MalformedPackets: map[uint16]bool{107: true}}
	responses := [][]byte{{1, 2, 3, 4, 5}}

	for i := 0; i < 50; i++ {
		out := ApplyMalformed(m, 107, responses)
		assert.Less(t, len(out[0]), len(responses[0]), "malformed payload must be strictly shorter than the original")
	}
}

func TestApplyMalformedLeavesEmptyPayloadAlone(t *testing.T) {
	m := MergedRules{MalformedPackets: map[uint16]bool{45: true}}
	out := ApplyMalformed(m, 45, [][]byte{{}})
	assert.Equal(t, []byte{}, out[0])
}

func TestApplyInvalidFieldValuesFillsWithFF(t *testing.T) {
	m := MergedRules{InvalidFieldValues: map[uint16]bool{107: true}}
	out := ApplyInvalidFieldValues(m, 107, [][]byte{{1, 2, 3}})
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF}, out[0])
}
