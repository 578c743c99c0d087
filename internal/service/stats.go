package service

import (
	"math"

	"oragh/backend/internal/dto"
	"oragh/backend/internal/model"
)

// computeStats aggregates attendance values. The rate is the mean value as a
// percentage rounded to two decimals, and 0 for an empty scope.
func computeStats(values []float64) dto.StatsResponse {
	var st dto.StatsResponse
	var sum float64
	for _, v := range values {
		st.Total++
		sum += v
		switch v {
		case model.PresentAbsent:
			st.Absent++
		case model.PresentHalf:
			st.Half++
		case model.PresentFull:
			st.Full++
		}
		if v > 0 {
			st.Present++
		}
	}
	if st.Total > 0 {
		st.AttendanceRate = round2(sum / float64(st.Total) * 100)
	}
	return st
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
