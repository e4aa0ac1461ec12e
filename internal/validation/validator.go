package validation

import (
	"context"
	"fmt"
	"strings"
)

// RunChecks evaluates every check in order. The error lists all failures.
func RunChecks(ctx context.Context, checks []Check) ([]Result, error) {
	results := make([]Result, 0, len(checks))
	var failed []string

	for _, check := range checks {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result := Evaluate(check)
		if !result.Passed {
			failed = append(failed, result.Message)
		}
		results = append(results, result)
	}

	if len(failed) > 0 {
		return results, fmt.Errorf("checks failed: %s", strings.Join(failed, "; "))
	}
	return results, nil
}
