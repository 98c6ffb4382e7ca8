package agent

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ProcuraAI/procura-mvp/engine/domain"
	"github.com/ProcuraAI/procura-mvp/engine/route"
)

// ComputationAgentID is the routing id of the computation agent.
const ComputationAgentID = "computation"

var (
	percentRe = regexp.MustCompile(`([\d,]+(?:\.\d+)?)\s*(?:%|percent)\s+of\s+\$?([\d,]+(?:\.\d+)?)`)
	binaryRe  = regexp.MustCompile(`\$?([\d,]+(?:\.\d+)?)\s*(\+|-|\*|/|plus|minus|times|multiplied by|divided by)\s*\$?([\d,]+(?:\.\d+)?)`)
	listRe    = regexp.MustCompile(`(average|mean|sum|total)\s+of\s+((?:\$?[\d,]+(?:\.\d+)?(?:\s*,\s*|\s+and\s+|\s+)?)+)`)
	numberRe  = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)
)

// ComputationAgent evaluates inline arithmetic: percentages, binary
// operations, sums and averages. No external calls; a turn with no
// recognizable expression is handed back.
type ComputationAgent struct{}

// NewComputationAgent creates the computation agent.
func NewComputationAgent() *ComputationAgent {
	return &ComputationAgent{}
}

func (a *ComputationAgent) Descriptor() route.Descriptor {
	return route.Descriptor{
		ID:   ComputationAgentID,
		Name: "Computation Agent",
		Keywords: []string{
			"calculate", "compute", "sum", "total", "average", "mean",
			"percentage", "percent", "arithmetic", "math",
		},
		Active: true,
	}
}

func (a *ComputationAgent) Handle(_ context.Context, turn domain.Turn) (domain.Response, error) {
	lower := strings.ToLower(turn.Content)

	if m := percentRe.FindStringSubmatch(lower); m != nil {
		pct := parseNum(m[1])
		base := parseNum(m[2])
		value := base * pct / 100
		content := fmt.Sprintf("%s%% of %s is %s", trimNum(pct), trimNum(base), trimNum(value))
		return reply(ComputationAgentID, turn, content, nil), nil
	}

	if m := listRe.FindStringSubmatch(lower); m != nil {
		nums := numberRe.FindAllString(m[2], -1)
		if len(nums) >= 2 {
			var sum float64
			for _, n := range nums {
				sum += parseNum(n)
			}
			if m[1] == "sum" || m[1] == "total" {
				content := fmt.Sprintf("The %s of those %d values is %s", m[1], len(nums), trimNum(sum))
				return reply(ComputationAgentID, turn, content, nil), nil
			}
			avg := sum / float64(len(nums))
			content := fmt.Sprintf("The average of those %d values is %s", len(nums), trimNum(avg))
			return reply(ComputationAgentID, turn, content, nil), nil
		}
	}

	if m := binaryRe.FindStringSubmatch(lower); m != nil {
		left, right := parseNum(m[1]), parseNum(m[3])
		var value float64
		switch m[2] {
		case "+", "plus":
			value = left + right
		case "-", "minus":
			value = left - right
		case "*", "times", "multiplied by":
			value = left * right
		case "/", "divided by":
			if right == 0 {
				return reply(ComputationAgentID, turn, "I can't divide by zero.", nil), nil
			}
			value = left / right
		}
		content := fmt.Sprintf("%s %s %s = %s", trimNum(left), symbol(m[2]), trimNum(right), trimNum(value))
		return reply(ComputationAgentID, turn, content, nil), nil
	}

	return domain.Response{}, ErrNotApplicable
}

func parseNum(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	n, _ := strconv.ParseFloat(s, 64)
	return n
}

func trimNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func symbol(op string) string {
	switch op {
	case "plus":
		return "+"
	case "minus":
		return "-"
	case "times", "multiplied by":
		return "*"
	case "divided by":
		return "/"
	}
	return op
}
