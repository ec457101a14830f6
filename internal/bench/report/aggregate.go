package report

import (
	"github.com/mygramdb/mygram-go/internal/bench/runner"
	"github.com/mygramdb/mygram-go/pkg/utils"
)

const scoreDecimals = 4

func Generate(br *runner.BenchmarkResult) *Report {
	r := &Report{
		Config: ReportConfig{
			KValues:            br.Config.KValues,
			RelevanceThreshold: br.Config.RelevanceThreshold,
		},
	}

	for _, jr := range br.Jobs {
		r.Jobs = append(r.Jobs, generateJob(jr, br.Config.KValues))
	}

	return r
}

func generateJob(jr *runner.JobResult, kValues []int) JobReport {
	out := JobReport{JobName: jr.JobName}

	for _, qID := range jr.QueryOrder {
		engineResults := jr.Results[qID]
		for _, engName := range jr.EngineNames {
			qr, ok := engineResults[engName]
			if !ok {
				continue
			}
			entry := Entry{
				QueryID:      qr.QueryID,
				JobName:      qr.JobName,
				EngineName:   qr.EngineName,
				NDCG:         qr.Scores.NDCG,
				Precision:    qr.Scores.Precision,
				Recall:       qr.Scores.Recall,
				F1:           qr.Scores.F1,
				AP:           qr.Scores.AP,
				RR:           qr.Scores.RR,
				TotalMatches: qr.TotalMatches,
				Latency:      fromRunnerLatencyStats(qr.Latency),
			}
			if qr.Error != nil {
				entry.Error = qr.Error.Error()
			}
			out.PerQuery = append(out.PerQuery, entry)
		}
	}

	out.Aggregated = aggregate(jr, kValues)

	return out
}

func aggregate(jr *runner.JobResult, kValues []int) []AggregatedEntry {
	entries := make([]AggregatedEntry, 0, len(jr.EngineNames))

	for _, engName := range jr.EngineNames {
		agg := AggregatedEntry{
			EngineName: engName,
			NDCG:       make(map[int]float64, len(kValues)),
			Precision:  make(map[int]float64, len(kValues)),
			Recall:     make(map[int]float64, len(kValues)),
			F1:         make(map[int]float64, len(kValues)),
		}

		var latencies []runner.LatencyStats
		counted := 0

		for _, qID := range jr.QueryOrder {
			qr, ok := jr.Results[qID][engName]
			if !ok {
				continue
			}
			agg.QueryCount++

			if qr.Error != nil {
				agg.ErrorCount++
				continue
			}

			counted++
			agg.MAP += qr.Scores.AP
			agg.MRR += qr.Scores.RR
			latencies = append(latencies, qr.Latency)

			for _, k := range kValues {
				agg.NDCG[k] += qr.Scores.NDCG[k]
				agg.Precision[k] += qr.Scores.Precision[k]
				agg.Recall[k] += qr.Scores.Recall[k]
				agg.F1[k] += qr.Scores.F1[k]
			}
		}

		if counted > 0 {
			n := float64(counted)
			agg.MAP = utils.RoundDecimal(agg.MAP/n, scoreDecimals)
			agg.MRR = utils.RoundDecimal(agg.MRR/n, scoreDecimals)

			for _, k := range kValues {
				agg.NDCG[k] = utils.RoundDecimal(agg.NDCG[k]/n, scoreDecimals)
				agg.Precision[k] = utils.RoundDecimal(agg.Precision[k]/n, scoreDecimals)
				agg.Recall[k] = utils.RoundDecimal(agg.Recall[k]/n, scoreDecimals)
				agg.F1[k] = utils.RoundDecimal(agg.F1[k]/n, scoreDecimals)
			}
		}

		// pooled raw samples, not an average of averages
		agg.Latency = fromRunnerLatencyStats(runner.AggregateLatencyStats(latencies))

		entries = append(entries, agg)
	}

	return entries
}
