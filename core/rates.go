package core

// AssignActiveRates projects the decomposed per-pair flow back onto
// the candidate physical links, filling ActiveRateMbps in place.
//
// When several parallel candidate links share one physical pair the
// aggregate is split proportionally to nominal capacity. BuildGraph
// emits at most one candidate per pair, so the split only engages for
// externally supplied link lists. The final
// step clamps to each link's own rate: `active <= nominal` must hold
// in everything we report. Clamping is expected to be a no-op; a
// non-zero clamp count signals a decomposition or unit-conversion
// inconsistency and is surfaced to the caller as a diagnostic.
func AssignActiveRates(links []CandidateLink, pairFlowKbps map[string]int64) (clamped int) {
	groups := make(map[string][]int, len(links))
	for i := range links {
		links[i].ActiveRateMbps = 0
		key := pairKey(links[i].A, links[i].B)
		groups[key] = append(groups[key], i)
	}

	for key, idxs := range groups {
		total := kbpsToMbps(pairFlowKbps[key])
		if total <= 0 {
			continue
		}

		var nominalSum float64
		for _, i := range idxs {
			nominalSum += links[i].RateMbps
		}

		for _, i := range idxs {
			share := total
			if len(idxs) > 1 && nominalSum > 0 {
				share = total * links[i].RateMbps / nominalSum
			}
			if share > links[i].RateMbps {
				share = links[i].RateMbps
				clamped++
			}
			links[i].ActiveRateMbps = share
		}
	}
	return clamped
}
