package domain

import "fmt"

// Operator is the arithmetic operator of a Challenge.
type Operator string

const (
	OpAdd Operator = "+"
	OpMul Operator = "*"
)

// Apply computes a op b.
func (o Operator) Apply(a, b int) int {
	if o == OpMul {
		return a * b
	}
	return a + b
}

// Challenge is a generated arithmetic question. It is never persisted.
type Challenge struct {
	Left           int
	Right          int
	Operator       Operator
	Question       string
	ExpectedAnswer int
}

// NewChallengeFrom builds a Challenge from its operands.
func NewChallengeFrom(a int, op Operator, b int) Challenge {
	return Challenge{
		Left:           a,
		Right:          b,
		Operator:       op,
		Question:       fmt.Sprintf("%d %s %d", a, op, b),
		ExpectedAnswer: op.Apply(a, b),
	}
}
