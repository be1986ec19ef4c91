package domain

// Classification is an ordinal label bucket derived from a numeric score.
type Classification string

const (
	ClassificationHigh       Classification = "high"
	ClassificationMediumHigh Classification = "medium-high"
	ClassificationMediumLow  Classification = "medium-low"
	ClassificationLow        Classification = "low"
)

// classificationCuts maps minimum score to label, highest first.
// Tier index is the position in this table (0 = high).
var classificationCuts = []struct {
	MinScore int
	Label    Classification
}{
	{75, ClassificationHigh},
	{50, ClassificationMediumHigh},
	{25, ClassificationMediumLow},
	{0, ClassificationLow},
}

// Classify maps a 0–100 score onto the fixed label set.
// Returns the stable ordinal tier index alongside the label.
func Classify(score int) (int, Classification) {
	for i, c := range classificationCuts {
		if score >= c.MinScore {
			return i, c.Label
		}
	}

	return len(classificationCuts) - 1, ClassificationLow
}

// FactorPoints is one factor's contribution to the total score.
type FactorPoints struct {
	Factor string `json:"factor"`
	Points int    `json:"points"`
}

// ScoreResult is the outcome of applying a rubric to channel metrics.
type ScoreResult struct {
	Score          int            `json:"score"` // 0–100
	Tier           int            `json:"tier"`  // ordinal, 0 = best
	Classification Classification `json:"classification"`
	Rubric         string         `json:"rubric"`
	Breakdown      []FactorPoints `json:"breakdown"`
}

// Tier maps a minimum factor value to awarded points.
type Tier struct {
	Min    float64
	Points int
}

// Factor is one weighted component of a rubric. Tiers are ordered highest
// threshold first; the first tier whose Min the value reaches wins.
type Factor struct {
	Name  string
	Value func(m *ChannelMetrics) float64
	Tiers []Tier
}

func (f *Factor) points(m *ChannelMetrics) int {
	v := f.Value(m)
	for _, t := range f.Tiers {
		if v >= t.Min {
			return t.Points
		}
	}

	return 0
}

// Rubric is a named weighted scoring table. Factor maxima sum to 100.
type Rubric struct {
	Name    string
	Factors []Factor
}

// Score applies the rubric to the metrics. Deterministic: a fixed input
// always yields the same score, tier and breakdown.
func (r *Rubric) Score(m *ChannelMetrics) ScoreResult {
	result := ScoreResult{
		Rubric:    r.Name,
		Breakdown: make([]FactorPoints, 0, len(r.Factors)),
	}

	for i := range r.Factors {
		pts := r.Factors[i].points(m)
		result.Score += pts
		result.Breakdown = append(result.Breakdown, FactorPoints{
			Factor: r.Factors[i].Name,
			Points: pts,
		})
	}

	result.Tier, result.Classification = Classify(result.Score)

	return result
}

// RubricBalanced weighs four factors equally at 25 points each. This is the
// default rubric for discovery runs.
//
//	subscribers     0–25
//	engagement      0–25
//	view ratio      0–25
//	growth proxy    0–25
func RubricBalanced() *Rubric {
	return &Rubric{
		Name: "balanced",
		Factors: []Factor{
			{
				Name:  "subscribers",
				Value: func(m *ChannelMetrics) float64 { return float64(m.SubscriberCount) },
				Tiers: []Tier{
					{1_000_000, 25}, {250_000, 20}, {100_000, 16},
					{25_000, 12}, {10_000, 8}, {1_000, 4},
				},
			},
			{
				Name:  "engagement",
				Value: func(m *ChannelMetrics) float64 { return m.EngagementRate },
				Tiers: []Tier{
					{8, 25}, {5, 20}, {3, 15}, {1.5, 10}, {0.5, 5},
				},
			},
			{
				Name:  "view_ratio",
				Value: func(m *ChannelMetrics) float64 { return m.ViewRatio() },
				Tiers: []Tier{
					{2, 25}, {1, 20}, {0.5, 15}, {0.2, 10}, {0.05, 5},
				},
			},
			{
				Name:  "growth",
				Value: func(m *ChannelMetrics) float64 { return m.SubscribersPerMonth() },
				Tiers: []Tier{
					{10_000, 25}, {5_000, 20}, {1_000, 15}, {250, 10}, {50, 5},
				},
			},
		},
	}
}

// RubricClassic reproduces the five-factor weighting used by the original
// lead cards, kept as a named preset for score compatibility.
//
//	views per video   0–30
//	engagement        0–25
//	upload frequency  0–20
//	subscribers       0–15
//	growth proxy      0–10
func RubricClassic() *Rubric {
	return &Rubric{
		Name: "classic",
		Factors: []Factor{
			{
				Name:  "views_per_video",
				Value: func(m *ChannelMetrics) float64 { return m.AvgViewsPerVideo() },
				Tiers: []Tier{
					{100_000, 30}, {50_000, 25}, {10_000, 18}, {2_500, 12}, {500, 6},
				},
			},
			{
				Name:  "engagement",
				Value: func(m *ChannelMetrics) float64 { return m.EngagementRate },
				Tiers: []Tier{
					{8, 25}, {5, 20}, {2.5, 14}, {1, 8}, {0.3, 4},
				},
			},
			{
				Name:  "frequency",
				Value: func(m *ChannelMetrics) float64 { return m.UploadsPerMonth },
				Tiers: []Tier{
					{16, 20}, {8, 15}, {4, 10}, {1, 5},
				},
			},
			{
				Name:  "subscribers",
				Value: func(m *ChannelMetrics) float64 { return float64(m.SubscriberCount) },
				Tiers: []Tier{
					{1_000_000, 15}, {250_000, 12}, {100_000, 9}, {25_000, 6}, {5_000, 3},
				},
			},
			{
				Name:  "growth",
				Value: func(m *ChannelMetrics) float64 { return m.SubscribersPerMonth() },
				Tiers: []Tier{
					{10_000, 10}, {2_500, 8}, {500, 5}, {100, 3}, {10, 1},
				},
			},
		},
	}
}

// RubricByName resolves a configured rubric name. Unknown names fall back
// to the balanced rubric.
func RubricByName(name string) *Rubric {
	if name == "classic" {
		return RubricClassic()
	}

	return RubricBalanced()
}
