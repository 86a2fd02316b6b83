package scenario

import "math/rand"

// ShouldDrop rolls the configured drop probability for pktType and
// reports whether the request should be dropped before any response
// (including an early ack) is sent.
func ShouldDrop(m MergedRules, pktType uint16) bool {
	p := m.DropProbability(pktType)
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rand.Float64() < p
}

// ApplyPartial randomly truncates a response list to a uniform length
// in [0, len(responses)] when pktType is in partial_responses.
func ApplyPartial(m MergedRules, pktType uint16, responses [][]byte) [][]byte {
	if !m.IsPartial(pktType) || len(responses) == 0 {
		return responses
	}
	n := rand.Intn(len(responses) + 1)
	return responses[:n]
}

// ApplyMalformed truncates each response payload to a random length
// strictly shorter than its original, when pktType is in
// malformed_packets. Payloads of length 0 are left alone: there is no
// shorter length to truncate to.
func ApplyMalformed(m MergedRules, pktType uint16, responses [][]byte) [][]byte {
	if !m.IsMalformed(pktType) {
		return responses
	}
	out := make([][]byte, len(responses))
	for i, r := range responses {
		if len(r) == 0 {
			out[i] = r
			continue
		}
		n := rand.Intn(len(r))
		out[i] = r[:n]
	}
	return out
}

// ApplyInvalidFieldValues overwrites every response payload with
// 0xFF bytes of the same length, when pktType is in
// invalid_field_values.
func ApplyInvalidFieldValues(m MergedRules, pktType uint16, responses [][]byte) [][]byte {
	if !m.HasInvalidFieldValues(pktType) {
		return responses
	}
	out := make([][]byte, len(responses))
	for i, r := range responses {
		corrupted := make([]byte, len(r))
		for j := range corrupted {
			corrupted[j] = 0xFF
		}
		out[i] = corrupted
	}
	return out
}
