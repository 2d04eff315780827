package attainment

import (
	"context"
	"fmt"
)

// Run evaluates def over rows without touching shared state. routed is used
// only by override assessments.
func Run(def *Definition, rows []StudentRow, routed CO) (Report, []StudentResult) {
	if def.Split {
		return AssembleSplit(def, rows), nil
	}

	results := Evaluate(def, rows, routed)
	summary := Summarize(def, results)
	switch {
	case def.Routing != nil:
		if co, ok := Route(summary.AttainmentLevels, def.Routing.Candidates); ok {
			summary.SelectedCO = &co
		}
	case def.Override != nil:
		summary.SelectedCO = &routed
	}

	report := Assemble(def, results, summary)
	if def.Override != nil {
		report.RoutedCO = &routed
	}
	return report, results
}

// Compute runs def against the shared routing state: override assessments
// read their slot first, routing tests publish their selection afterwards.
// An empty upload publishes nothing.
func Compute(ctx context.Context, def *Definition, rows []StudentRow, store RoutingStore) (Report, []StudentResult, error) {
	var routed CO
	if def.Override != nil {
		co, err := Resolve(ctx, store, def.Override.Slot)
		if err != nil {
			return Report{}, nil, fmt.Errorf("read routing slot %s: %w", def.Override.Slot, err)
		}
		routed = co
	}

	report, results := Run(def, rows, routed)

	if def.Routing != nil && len(rows) > 0 {
		var co CO
		selected := report.Summary.SelectedCO != nil
		if selected {
			co = *report.Summary.SelectedCO
		}
		if err := Publish(ctx, store, def.Routing.Slot, co, selected); err != nil {
			return report, results, fmt.Errorf("publish routing slot %s: %w", def.Routing.Slot, err)
		}
	}
	return report, results, nil
}
