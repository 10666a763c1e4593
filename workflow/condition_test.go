package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvalConditionBasic(t *testing.T) {
	ctx := context.Background()
	condition := NewEvalCondition(`budget_tier == "low"`)

	result, err := condition.Evaluate(ctx, map[string]any{"budget_tier": "low"})
	require.NoError(t, err)
	require.True(t, result)

	result, err = condition.Evaluate(ctx, map[string]any{"budget_tier": "high"})
	require.NoError(t, err)
	require.False(t, result)
}

func TestEvalConditionJavaScriptOperators(t *testing.T) {
	ctx := context.Background()

	condition := NewEvalCondition(`budget_tier === 'low'`)
	result, err := condition.Evaluate(ctx, map[string]any{"budget_tier": "low"})
	require.NoError(t, err)
	require.True(t, result)

	condition = NewEvalCondition(`budget_tier !== 'low'`)
	result, err = condition.Evaluate(ctx, map[string]any{"budget_tier": "high"})
	require.NoError(t, err)
	require.True(t, result)
}

func TestEvalConditionNumericComparison(t *testing.T) {
	ctx := context.Background()
	condition := NewEvalCondition("shot_count > 3")

	result, err := condition.Evaluate(ctx, map[string]any{"shot_count": 5})
	require.NoError(t, err)
	require.True(t, result)

	result, err = condition.Evaluate(ctx, map[string]any{"shot_count": 2})
	require.NoError(t, err)
	require.False(t, result)
}

func TestEvalConditionOperatorsInsideStringLiterals(t *testing.T) {
	ctx := context.Background()

	// Operator rewriting must not touch quoted literals.
	condition := NewEvalCondition(`label === 'a === b'`)
	result, err := condition.Evaluate(ctx, map[string]any{"label": "a === b"})
	require.NoError(t, err)
	require.True(t, result)

	condition = NewEvalCondition(`label !== "x !== y"`)
	result, err = condition.Evaluate(ctx, map[string]any{"label": "x !== y"})
	require.NoError(t, err)
	require.False(t, result)
}

func TestEvalConditionMissingVariableIsFalse(t *testing.T) {
	condition := NewEvalCondition(`budget_tier == "low"`)
	result, err := condition.Evaluate(context.Background(), map[string]any{"other": 1})
	require.NoError(t, err)
	require.False(t, result)
}

func TestEvalConditionParseError(t *testing.T) {
	condition := NewEvalCondition("== nonsense ==")
	_, err := condition.Evaluate(context.Background(), map[string]any{})
	require.Error(t, err)
}
