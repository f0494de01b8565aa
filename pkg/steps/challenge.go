package steps

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/aretw0/taskgate/pkg/domain"
)

// Operand bounds of generated challenges (inclusive).
const (
	OperandMin = 20
	OperandMax = 69
)

// NewChallenge draws two operands uniformly in [OperandMin, OperandMax] and
// an operator uniformly from + and *.
func NewChallenge(rng *rand.Rand) domain.Challenge {
	a := OperandMin + rng.IntN(OperandMax-OperandMin+1)
	b := OperandMin + rng.IntN(OperandMax-OperandMin+1)
	op := domain.OpAdd
	if rng.IntN(2) == 1 {
		op = domain.OpMul
	}
	return domain.NewChallengeFrom(a, op, b)
}

// ParseLeadingInt reads an optionally signed decimal integer at the start of s,
// after leading white space, ignoring whatever follows ("42abc" is 42).
// ok is false when no digit is found or the value overflows.
func ParseLeadingInt(s string) (n int, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		d := int(r - '0')
		if n > (math.MaxInt-d)/10 {
			return 0, false
		}
		n = n*10 + d
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// ChallengeResponse generates a fresh challenge for every run and accepts iff
// the answer parses to the expected value. Anything else is a "wrong answer".
func (l *Library) ChallengeResponse() Step {
	return Step{
		Name: "challenge",
		Kind: KindChallenge,
		Run: func(ctx context.Context, _ domain.Outcome) (domain.Outcome, error) {
			ch := NewChallenge(l.rng)
			res, err := l.dialogs.Present(ctx, domain.DialogRequest{
				Message: fmt.Sprintf("Solve this: %s", ch.Question),
				Widgets: []domain.WidgetSpec{domain.TextInput(LabelSubmit, "")},
			})
			if err != nil {
				return domain.Outcome{}, err
			}
			got, ok := ParseLeadingInt(res.Text())
			if !ok || got != ch.ExpectedAnswer {
				l.logger.Debug("challenge failed", "question", ch.Question, "answer", res.Text())
				return domain.Fail(domain.ReasonWrongAnswer), nil
			}
			return domain.Accept(got), nil
		},
	}
}
