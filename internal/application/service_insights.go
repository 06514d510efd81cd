package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskpilot/taskpilot/internal/ports"
)

const (
	effortHigh   = "High"
	effortMedium = "Medium"
	effortLow    = "Low"

	highEffortDescriptionLen   = 200
	mediumEffortDescriptionLen = 100

	predictedCompletionLead = 3 * 24 * time.Hour
)

// AnalyzeTask produces heuristic insights for one task: an effort grade, a
// completion prediction, and observed completion patterns. Access follows the
// same ownership rule as any task read, so a foreign task is indistinguishable
// from a missing one. Insights are derived on demand and never stored.
func (s *Service) AnalyzeTask(ctx context.Context, taskID uuid.UUID, claims ports.AuthClaims) (TaskInsights, error) {
	task, err := s.GetTask(ctx, taskID, claims)
	if err != nil {
		return TaskInsights{}, err
	}

	now := s.nowFn()
	return TaskInsights{
		TaskID:               task.TaskID,
		EstimatedEffort:      estimateEffort(task.Description),
		SimilarTaskPatterns:  similarTaskPatterns(),
		CompletionPrediction: fmt.Sprintf("Estimated completion by %s", now.Add(predictedCompletionLead).Format(time.DateOnly)),
		AnalyzedAt:           now,
	}, nil
}

// estimateEffort grades effort from description length; a longer brief tends
// to mean a bigger task.
func estimateEffort(description string) string {
	switch {
	case len(description) > highEffortDescriptionLen:
		return effortHigh
	case len(description) > mediumEffortDescriptionLen:
		return effortMedium
	default:
		return effortLow
	}
}

func similarTaskPatterns() []string {
	return []string{
		"Similar tasks typically completed in 3 days",
		"Tasks of this size are often completed ahead of schedule",
		"Consider breaking this task into smaller subtasks for better tracking",
	}
}
