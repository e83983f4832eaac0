package lang

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
)

func TestRun_Arithmetic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"precedence", "2 + 3 * 4", 14},
		{"parentheses", "(2 + 3) * 4", 20},
		{"left associative subtraction", "10 - 3 - 2", 5},
		{"left associative division", "20 / 2 / 2", 5},
		{"mixed", "100 - 4 * 5 / 2 + 1", 91},
		{"truncation toward zero", "7 / 2", 3},
		{"negative truncation", "(0 - 7) / 2", -3},
		{"negative divisor", "7 / (0 - 2)", -3},
		{"negative result", "3 - 10", -7},
		{"leading zeros", "007 + 0", 7},
		{"max int64", "9223372036854775807", math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Run(t.Context(), tt.input, NewEnvironment())
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRun_SharedEnvironment(t *testing.T) {
	env := NewEnvironment()

	for _, stmt := range []string{"x = 10", "y = x + 5", "z = x * y"} {
		if _, err := Run(t.Context(), stmt, env); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}

	if z, ok := env.Get("z"); !ok || z != 150 {
		t.Errorf("expected z == 150, got %d (bound %v)", z, ok)
	}

	if env.Len() != 3 {
		t.Errorf("expected 3 bindings, got %d", env.Len())
	}
}

func TestRun_ChainedAssignment(t *testing.T) {
	env := NewEnvironment()

	got, err := Run(t.Context(), "a = b = c = 5", env)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if got != 5 {
		t.Errorf("expected 5, got %d", got)
	}

	for _, name := range []string{"a", "b", "c"} {
		if v, ok := env.Get(name); !ok || v != 5 {
			t.Errorf("expected %s == 5, got %d (bound %v)", name, v, ok)
		}
	}
}

func TestRun_SelfReferentialAssignment(t *testing.T) {
	env := NewEnvironment()
	env.Set("x", 3)

	got, err := Run(t.Context(), "x = x + 1", env)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if got != 4 {
		t.Errorf("expected 4, got %d", got)
	}

	if x, _ := env.Get("x"); x != 4 {
		t.Errorf("expected x == 4, got %d", x)
	}
}

func TestRun_LeftBeforeRight(t *testing.T) {
	env := NewEnvironment()

	// The left operand's assignment is visible to the right operand.
	got, err := Run(t.Context(), "(x = 2) * (x + 1)", env)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if got != 6 {
		t.Errorf("expected 6, got %d", got)
	}

	got, err = Run(t.Context(), "x - (x = 10)", env)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if got != -8 {
		t.Errorf("expected -8, got %d", got)
	}
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{
			name:    "division by zero",
			input:   "5 / 0",
			wantErr: ErrDivisionByZero,
			wantMsg: "division by zero",
		},
		{
			name:    "computed zero divisor",
			input:   "5 / (3 - 3)",
			wantErr: ErrDivisionByZero,
		},
		{
			name:    "undefined variable",
			input:   "x + 1",
			wantErr: ErrUndefinedVariable,
			wantMsg: "1:1: undefined variable: x",
		},
		{
			name:    "undefined in assignment value",
			input:   "y = z",
			wantErr: ErrUndefinedVariable,
			wantMsg: "undefined variable: z",
		},
		{
			name:    "addition overflow",
			input:   "9223372036854775807 + 1",
			wantErr: ErrOverflow,
			wantMsg: "integer overflow",
		},
		{
			name:    "subtraction overflow",
			input:   "0 - 9223372036854775807 - 2",
			wantErr: ErrOverflow,
		},
		{
			name:    "multiplication overflow",
			input:   "4611686018427387904 * 2",
			wantErr: ErrOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			got, err := Eval(t.Context(), expr, NewEnvironment())
			if err == nil {
				t.Fatalf("expected error, got %d", got)
			}

			if got != 0 {
				t.Errorf("expected no result on error, got %d", got)
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}

			if !IsEvalError(err) || IsParseError(err) {
				t.Errorf("expected eval error class, got %v", err)
			}

			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected message containing %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestEval_StopsAtFirstError(t *testing.T) {
	env := NewEnvironment()

	// The left operand fails, so the right operand's assignment never runs.
	_, err := Run(t.Context(), "(1 / 0) + (y = 1)", env)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected %v, got %v", ErrDivisionByZero, err)
	}

	if _, ok := env.Get("y"); ok {
		t.Error("expected y to remain unbound")
	}

	// Assignments completed before the failure remain.
	_, err = Run(t.Context(), "(a = 1) + b", env)
	if !errors.Is(err, ErrUndefinedVariable) {
		t.Fatalf("expected %v, got %v", ErrUndefinedVariable, err)
	}

	if a, ok := env.Get("a"); !ok || a != 1 {
		t.Errorf("expected a == 1, got %d (bound %v)", a, ok)
	}
}

func TestRun_ParseErrorLeavesEnvironment(t *testing.T) {
	env := NewEnvironment()

	_, err := Run(t.Context(), "x = 1 +", env)
	if !IsParseError(err) {
		t.Fatalf("expected parse error, got %v", err)
	}

	if env.Len() != 0 {
		t.Errorf("expected untouched environment, got %v", env.Names())
	}
}

func TestEval_NilEnvironment(t *testing.T) {
	_, err := Eval(t.Context(), NewLiteral(1), nil)
	if !errors.Is(err, ErrNilEnvironment) {
		t.Errorf("expected %v, got %v", ErrNilEnvironment, err)
	}
}

func TestEval_InvalidNode(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
	}{
		{"nil expression", nil},
		{"unknown operator", &Binary{Left: NewLiteral(1), Op: Op(99), Right: NewLiteral(2)}},
		{"nested nil operand", NewBinary(NewLiteral(1), OpAdd, nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eval(t.Context(), tt.expr, NewEnvironment())
			if !errors.Is(err, ErrInvalidNode) {
				t.Fatalf("expected %v, got %v", ErrInvalidNode, err)
			}

			if !IsEvalError(err) || IsParseError(err) {
				t.Errorf("expected eval class only, got parse=%v eval=%v",
					IsParseError(err), IsEvalError(err))
			}
		})
	}
}

func TestEval_ContextCancelled(t *testing.T) {
	cause := errors.New("stop")

	ctx, cancel := context.WithCancelCause(t.Context())
	cancel(cause)

	_, err := Run(ctx, "1 + 2", NewEnvironment())
	if !errors.Is(err, cause) {
		t.Errorf("expected cancellation cause, got %v", err)
	}
}

func TestEval_OverflowPolicy(t *testing.T) {
	const (
		maxInt = "9223372036854775807"
		minInt = "(0 - " + maxInt + " - 1)"
	)

	tests := []struct {
		name     string
		input    string
		wrap     int64
		saturate int64
	}{
		{"add", maxInt + " + 1", math.MinInt64, math.MaxInt64},
		{"subtract", minInt + " - 1", math.MaxInt64, math.MinInt64},
		{"subtract negative", "1 - " + minInt, math.MinInt64 + 1, math.MaxInt64},
		{"multiply positive", maxInt + " * 2", -2, math.MaxInt64},
		{"multiply negative", maxInt + " * (0 - 2)", 2, math.MinInt64},
		{"multiply min by -1", minInt + " * (0 - 1)", math.MinInt64, math.MaxInt64},
		{"divide min by -1", minInt + " / (0 - 1)", math.MinInt64, math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := ParseString(tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			if _, err := Eval(t.Context(), expr, NewEnvironment()); !errors.Is(err, ErrOverflow) {
				t.Errorf("error policy: expected %v, got %v", ErrOverflow, err)
			}

			got, err := Eval(t.Context(), expr, NewEnvironment(), WithOverflow(OverflowWrap))
			if err != nil || got != tt.wrap {
				t.Errorf("wrap policy: expected %d, got %d (%v)", tt.wrap, got, err)
			}

			got, err = Eval(t.Context(), expr, NewEnvironment(), WithOverflow(OverflowSaturate))
			if err != nil || got != tt.saturate {
				t.Errorf("saturate policy: expected %d, got %d (%v)", tt.saturate, got, err)
			}
		})
	}
}

func TestEval_NoFalseOverflow(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"(0 - 9223372036854775807 - 1) + 9223372036854775807", -1},
		{"(0 - 1) - (0 - 9223372036854775807 - 1)", math.MaxInt64},
		{"(0 - 4611686018427387904) * 2", math.MinInt64},
		{"(0 - 9223372036854775807 - 1) / 1", math.MinInt64},
		{"0 * (0 - 9223372036854775807 - 1)", 0},
	}

	for _, tt := range tests {
		got, err := Run(t.Context(), tt.input, NewEnvironment())
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tt.input, err)

			continue
		}

		if got != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.input, tt.want, got)
		}
	}
}

func TestOverflowPolicy_Names(t *testing.T) {
	for _, name := range OverflowPolicies() {
		p, ok := ParseOverflowPolicy(name)
		if !ok {
			t.Errorf("expected %q to parse", name)
		}

		if p.String() != name {
			t.Errorf("expected %q, got %q", name, p.String())
		}
	}

	if p, ok := ParseOverflowPolicy("bogus"); ok || p != DefaultOverflow {
		t.Errorf("expected default policy for unknown name, got %v (%v)", p, ok)
	}
}

func BenchmarkEval(b *testing.B) {
	tests := []struct {
		name string
		expr string
	}{
		{"literal", "42"},
		{"arithmetic", "1 + 2 * 3 - 4 / 2"},
		{"variables", "x * y + x / y - x"},
		{"assignment_chain", "a = b = c = x + y"},
		{"nested", strings.Repeat("(x + ", 32) + "1" + strings.Repeat(")", 32)},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			expr, err := ParseString(tt.expr)
			if err != nil {
				b.Fatalf("parse error: %v", err)
			}

			env := NewEnvironment()
			env.Set("x", 7)
			env.Set("y", 3)

			ctx := context.Background()

			b.ReportAllocs()

			for b.Loop() {
				if _, err := Eval(ctx, expr, env); err != nil {
					b.Fatalf("eval error: %v", err)
				}
			}
		})
	}
}

func BenchmarkParse(b *testing.B) {
	var terms []string
	for i := range 64 {
		terms = append(terms, "v"+strconv.Itoa(i)+" * "+strconv.Itoa(i+1))
	}

	src := strings.Join(terms, " + ")

	ctx := context.Background()

	b.ReportAllocs()
	b.SetBytes(int64(len(src)))

	for b.Loop() {
		if _, err := Parse(ctx, src); err != nil {
			b.Fatalf("parse error: %v", err)
		}
	}
}
