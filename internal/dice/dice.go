// Package dice evaluates flat NdM+K dice expressions.
package dice

import (
	"errors"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidExpression is returned for any expression outside the supported
// grammar: optional "/roll" prefix, then <count>d<sides> with an optional
// signed modifier. Compound expressions are not supported.
var ErrInvalidExpression = errors.New("invalid dice expression")

const (
	maxCount = 1000
	maxSides = 100000
)

var exprPattern = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// Outcome is the result of evaluating a dice expression.
type Outcome struct {
	Rolls    []int `json:"rolls"`
	Count    int   `json:"count"`
	Sides    int   `json:"sides"`
	Modifier int   `json:"modifier"`
	Total    int   `json:"total"`
}

// Evaluate parses expression and rolls it. Each die face is equally likely,
// independent of other dice. Evaluate performs no I/O; callers handle
// persistence and broadcast.
func Evaluate(expression string) (*Outcome, error) {
	expr := strings.TrimSpace(expression)

	if rest, ok := strings.CutPrefix(expr, "/roll"); ok {
		expr = strings.TrimSpace(rest)
	}

	match := exprPattern.FindStringSubmatch(expr)

	if match == nil {
		return nil, ErrInvalidExpression
	}

	count, err := strconv.Atoi(match[1])
	if err != nil || count < 1 || count > maxCount {
		return nil, ErrInvalidExpression
	}

	sides, err := strconv.Atoi(match[2])
	if err != nil || sides < 1 || sides > maxSides {
		return nil, ErrInvalidExpression
	}

	modifier := 0
	if match[3] != "" {
		modifier, err = strconv.Atoi(match[3])
		if err != nil {
			return nil, ErrInvalidExpression
		}
	}

	rolls := make([]int, count)
	total := modifier

	for i := range rolls {
		rolls[i] = rand.IntN(sides) + 1
		total += rolls[i]
	}

	return &Outcome{
		Rolls:    rolls,
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
		Total:    total,
	}, nil
}
