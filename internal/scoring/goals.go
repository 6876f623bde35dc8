// internal/scoring/goals.go
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"planora/internal/domain"
)

// Goal categories, keyed the way the goal questionnaire groups them.
const (
	GoalShortTerm         = "shortTerm"
	GoalMediumTerm        = "mediumTerm"
	GoalLongTerm          = "longTerm"
	GoalRetirement        = "retirement"
	GoalHouseCar          = "houseCar"
	GoalChildrenEducation = "childrenEducation"
	GoalBusiness          = "business"
	GoalTravelLifestyle   = "travelLifestyle"
)

var goalLabels = map[string]string{
	GoalShortTerm:         "Short-Term",
	GoalMediumTerm:        "Medium-Term",
	GoalLongTerm:          "Long-Term",
	GoalRetirement:        "Retirement",
	GoalHouseCar:          "House & Car",
	GoalChildrenEducation: "Children's Education",
	GoalBusiness:          "Business",
	GoalTravelLifestyle:   "Travel & Lifestyle",
}

// Baselines used when no trained model is available.
const (
	basePriority    = 70.0
	baseFeasibility = 65.0
)

var priorityMultiplier = map[string]float64{
	GoalRetirement:        1.2,
	GoalChildrenEducation: 1.1,
	GoalHouseCar:          1.0,
	GoalBusiness:          0.9,
	GoalTravelLifestyle:   0.8,
	GoalShortTerm:         0.7,
	GoalMediumTerm:        0.9,
	GoalLongTerm:          1.1,
}

var feasibilityAdjustment = map[string]float64{
	GoalRetirement:        5,
	GoalShortTerm:         10,
	GoalHouseCar:          -5,
	GoalBusiness:          -10,
	GoalChildrenEducation: 5,
	GoalTravelLifestyle:   0,
	GoalLongTerm:          8,
}

var timelineOf = map[string]string{
	GoalShortTerm:         "shortTerm",
	GoalHouseCar:          "mediumTerm",
	GoalBusiness:          "mediumTerm",
	GoalChildrenEducation: "longTerm",
	GoalRetirement:        "longTerm",
	GoalLongTerm:          "longTerm",
	GoalTravelLifestyle:   "mediumTerm",
}

var defaultGoalAllocation = map[string]int{
	"emergencyFund": 25,
	"shortTerm":     20,
	"mediumTerm":    25,
	"longTerm":      30,
}

func splitGoals(s string) []string {
	var out []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// ExtractGoals groups the comma-separated answers by category, dropping empty ones.
func ExtractGoals(p domain.GoalPlan) map[string][]string {
	raw := map[string]string{
		GoalShortTerm:         p.ShortTermGoals,
		GoalMediumTerm:        p.MediumTermGoals,
		GoalLongTerm:          p.LongTermGoals,
		GoalRetirement:        p.RetirementPlan,
		GoalHouseCar:          p.HouseCarPurchase,
		GoalChildrenEducation: p.ChildrenEducationWedding,
		GoalBusiness:          p.StartBusiness,
		GoalTravelLifestyle:   p.TravelLifestyleGoals,
	}
	goals := map[string][]string{}
	for cat, s := range raw {
		if g := splitGoals(s); len(g) > 0 {
			goals[cat] = g
		}
	}
	return goals
}

func avgLen(goals []string) float64 {
	var n int
	for _, g := range goals {
		n += len(g)
	}
	return float64(n) / float64(len(goals))
}

func goalPriorities(goals map[string][]string) map[string]domain.GoalPriority {
	out := make(map[string]domain.GoalPriority, len(goals))
	for cat, list := range goals {
		mult, ok := priorityMultiplier[cat]
		if !ok {
			mult = 1.0
		}
		out[cat] = domain.GoalPriority{
			Score:           basePriority,
			NormalizedScore: math.Min(100, basePriority*mult),
			Goals:           list,
		}
	}
	return out
}

func goalTimelines(goals map[string][]string) map[string][]string {
	timelines := map[string][]string{
		"immediate":  {},
		"shortTerm":  {},
		"mediumTerm": {},
		"longTerm":   {},
	}
	for _, cat := range sortedKeys(goals) {
		bucket, ok := timelineOf[cat]
		if !ok {
			bucket = "mediumTerm"
		}
		for _, g := range goals[cat] {
			timelines[bucket] = append(timelines[bucket], fmt.Sprintf("%s (%s)", g, cat))
		}
	}
	return timelines
}

func goalFeasibility(goals map[string][]string) map[string]float64 {
	out := make(map[string]float64, len(goals))
	for cat, list := range goals {
		score := baseFeasibility + feasibilityAdjustment[cat]
		switch l := avgLen(list); {
		case l > 100:
			score += 15
		case l > 50:
			score += 8
		}
		out[cat] = math.Max(0, math.Min(100, score))
	}
	return out
}

var recommendationRank = map[string]int{"high": 3, "medium": 2, "low": 1}

func goalRecommendations(goals map[string][]string, prio map[string]domain.GoalPriority, feas map[string]float64, alloc map[string]int) []domain.GoalRecommendation {
	var recs []domain.GoalRecommendation
	cats := sortedKeys(goals)

	for _, cat := range cats {
		if prio[cat].NormalizedScore > 60 && feas[cat] > 70 {
			recs = append(recs, domain.GoalRecommendation{
				Type:       "high_priority_feasible",
				Category:   cat,
				Title:      "Focus on " + goalLabels[cat],
				Message:    fmt.Sprintf("Your %s goals are both high priority and highly feasible. Prioritize these for maximum impact.", strings.ToLower(goalLabels[cat])),
				Action:     "Start planning and allocating resources immediately",
				Priority:   "high",
				Confidence: baseFeasibility / 100,
			})
		}
	}
	for _, cat := range cats {
		if prio[cat].NormalizedScore > 60 && feas[cat] < 50 {
			recs = append(recs, domain.GoalRecommendation{
				Type:       "review_adjust",
				Category:   cat,
				Title:      "Review " + goalLabels[cat] + " Goals",
				Message:    fmt.Sprintf("Your %s goals are important but may need adjustment for better feasibility.", strings.ToLower(goalLabels[cat])),
				Action:     "Consider adjusting timeline, budget, or scope",
				Priority:   "medium",
				Confidence: baseFeasibility / 100,
			})
		}
	}
	if len(goals) > 5 {
		recs = append(recs, domain.GoalRecommendation{
			Type:       "focus_management",
			Category:   "general",
			Title:      "Goal Focus Strategy",
			Message:    fmt.Sprintf("You have %d goal areas. Consider focusing on 2-3 highest priority goals first.", len(goals)),
			Action:     "Create a goal hierarchy and tackle one goal at a time",
			Priority:   "medium",
			Confidence: 0.8,
		})
	}
	if !mentionsEmergency(goals) {
		recs = append(recs, domain.GoalRecommendation{
			Type:       "missing_emergency_fund",
			Category:   "emergency",
			Title:      "Consider Emergency Fund",
			Message:    fmt.Sprintf("We recommend a %d%% allocation to an emergency fund for financial security.", alloc["emergencyFund"]),
			Action:     "Start building 3-6 months of expenses as an emergency fund",
			Priority:   "high",
			Confidence: 0.9,
		})
	}
	if len(goals) > 0 {
		recs = append(recs, domain.GoalRecommendation{
			Type:       "analysis_confidence",
			Category:   "general",
			Title:      "Analysis Confidence",
			Message:    fmt.Sprintf("Analysis confidence: %.1f%%. Higher scores indicate more reliable estimates.", baseFeasibility),
			Action:     "Review and adjust based on your personal circumstances",
			Priority:   "low",
			Confidence: 1.0,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		ri, rj := recommendationRank[recs[i].Priority], recommendationRank[recs[j].Priority]
		if ri != rj {
			return ri > rj
		}
		return recs[i].Confidence > recs[j].Confidence
	})
	return recs
}

func mentionsEmergency(goals map[string][]string) bool {
	for _, list := range goals {
		for _, g := range list {
			if strings.Contains(strings.ToLower(g), "emergency") {
				return true
			}
		}
	}
	return false
}

func goalConfidence(goals map[string][]string, feas map[string]float64) float64 {
	if len(goals) == 0 {
		return 0
	}
	confidence := 0.8
	switch {
	case len(goals) > 6:
		confidence *= 0.85
	case len(goals) > 4:
		confidence *= 0.9
	}
	if len(feas) > 0 {
		var total float64
		for _, s := range feas {
			total += s
		}
		switch avg := total / float64(len(feas)); {
		case avg < 40:
			confidence *= 0.8
		case avg > 80:
			confidence *= 1.1
		}
	}
	return math.Min(1, confidence)
}

func balancedAllocation() map[string]int {
	alloc := make(map[string]int, len(defaultGoalAllocation))
	total := 0
	for k, v := range defaultGoalAllocation {
		alloc[k] = v
		total += v
	}
	alloc["longTerm"] += 100 - total
	return alloc
}

// AnalyzeGoals prioritizes and schedules the goals of a plan.
func AnalyzeGoals(p domain.GoalPlan) domain.GoalAnalysis {
	goals := ExtractGoals(p)
	prio := goalPriorities(goals)
	feas := goalFeasibility(goals)
	alloc := balancedAllocation()

	return domain.GoalAnalysis{
		Goals:                goals,
		Priorities:           prio,
		TimelineAnalysis:     goalTimelines(goals),
		FeasibilityScores:    feas,
		Recommendations:      goalRecommendations(goals, prio, feas, alloc),
		InvestmentAllocation: alloc,
		ConfidenceScore:      goalConfidence(goals, feas),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
