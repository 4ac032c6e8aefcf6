package engine

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RetryBudget bounds a retry loop: either Finite(n) attempts or Unbounded.
// The zero value is Unbounded.
type RetryBudget struct {
	limit int
}

// Unbounded never runs out.
var Unbounded = RetryBudget{}

// Finite returns a budget of n attempts. Values below 1 are raised to 1.
func Finite(n int) RetryBudget {
	if n < 1 {
		n = 1
	}
	return RetryBudget{limit: n}
}

// ParseRetryBudget accepts a positive integer or "inf"/"unbounded". The YAML
// float infinity spellings (.inf, +.inf) are unbounded too.
func ParseRetryBudget(s string) (RetryBudget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inf", "+inf", ".inf", "+.inf", "infinite", "unbounded", "forever":
		return Unbounded, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return RetryBudget{}, fmt.Errorf("invalid retry budget %q: expected a positive integer or \"inf\"", s)
	}
	if n < 1 {
		return RetryBudget{}, fmt.Errorf("invalid retry budget %d: must be at least 1", n)
	}
	return Finite(n), nil
}

// IsUnbounded reports whether the budget never runs out.
func (b RetryBudget) IsUnbounded() bool {
	return b.limit == 0
}

// Limit returns the attempt count of a finite budget, 0 when unbounded.
func (b RetryBudget) Limit() int {
	return b.limit
}

// Reached reports whether count attempts exhaust the budget.
func (b RetryBudget) Reached(count int) bool {
	return b.limit > 0 && count >= b.limit
}

func (b RetryBudget) String() string {
	if b.IsUnbounded() {
		return "inf"
	}
	return strconv.Itoa(b.limit)
}

// Progress formats an attempt counter, e.g. "2/3" or "2/inf".
func (b RetryBudget) Progress(count int) string {
	return fmt.Sprintf("%d/%s", count, b)
}

func (b RetryBudget) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *RetryBudget) UnmarshalText(text []byte) error {
	parsed, err := ParseRetryBudget(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (b *RetryBudget) UnmarshalYAML(value *yaml.Node) error {
	return b.UnmarshalText([]byte(value.Value))
}
