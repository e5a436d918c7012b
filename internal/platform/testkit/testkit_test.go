package testkit

import "testing"

func TestMustPanic(t *testing.T) {
	t.Parallel()

	MustPanic(t, func() { panic("boom") })
}

func TestMustNotPanic(t *testing.T) {
	t.Parallel()

	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	t.Parallel()

	MustContain(t, "alpha beta gamma", "beta")
}

func TestCloseTo(t *testing.T) {
	t.Parallel()

	CloseTo(t, 0.736, 0.73636, 0.001)
	CloseTo(t, 1.0, 1.0, 0)
}
