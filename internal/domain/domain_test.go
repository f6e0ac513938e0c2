package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestBitCountAdd(t *testing.T) {
	var c BitCount
	c.Add(BitOne)
	c.Add(BitZero)
	c.Add(BitOne)

	if c.Zeros != 1 || c.Ones != 2 {
		t.Fatalf("counts = %+v", c)
	}
	if c.Total() != 3 {
		t.Fatalf("Total = %d", c.Total())
	}
}

func TestBitCountJSONKeys(t *testing.T) {
	b, err := json.Marshal(BitCount{Zeros: 7, Ones: 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"0":7,"1":3}` {
		t.Fatalf("json = %s", b)
	}
}

func TestNewSingleOpCopiesTargets(t *testing.T) {
	targets := []int{0, 1, 2}
	op := NewSingleOp("H", targets, 5*time.Millisecond)

	targets[0] = 99
	if op.Targets[0] != 0 {
		t.Fatal("operation must not alias the caller's slice")
	}
	if op.Kind != OpSingle || op.Gate != "H" || op.Delay != 5*time.Millisecond {
		t.Fatalf("op = %+v", op)
	}
	if op.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatal("operation must get a real ID")
	}
	if op.EnqueuedAt.IsZero() {
		t.Fatal("EnqueuedAt not set")
	}
}

func TestNewTwoOp(t *testing.T) {
	op := NewTwoOp("CNOT", 2, 5, 0)
	if op.Kind != OpTwo {
		t.Fatalf("Kind = %v", op.Kind)
	}
	if len(op.Targets) != 2 || op.Targets[0] != 2 || op.Targets[1] != 5 {
		t.Fatalf("Targets = %v", op.Targets)
	}
}

func TestMeasurementRequestValidate(t *testing.T) {
	tests := []struct {
		name string
		req  MeasurementRequest
		want error
	}{
		{"physical ok", MeasurementRequest{Channels: []int{0}, Shots: 1, Repetition: 3}, nil},
		{"logical ok", MeasurementRequest{Group: []int{0, 1, 2}, Shots: 1, Repetition: 1}, nil},
		{"no targets", MeasurementRequest{Shots: 1, Repetition: 1}, ErrNoChannels},
		{"zero shots", MeasurementRequest{Channels: []int{0}, Repetition: 1}, ErrInvalidShots},
		{"zero repetition", MeasurementRequest{Channels: []int{0}, Shots: 1}, ErrInvalidRepetition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMeasurementRequestTargets(t *testing.T) {
	phys := MeasurementRequest{Channels: []int{4, 5}}
	if got := phys.Targets(); len(got) != 2 || got[0] != 4 {
		t.Fatalf("Targets = %v", got)
	}
	logical := MeasurementRequest{Group: []int{0, 1, 2}}
	if got := logical.Targets(); len(got) != 3 || got[2] != 2 {
		t.Fatalf("Targets = %v", got)
	}
}

func TestOpKindString(t *testing.T) {
	if OpSingle.String() != "single" {
		t.Fatalf("OpSingle = %q", OpSingle.String())
	}
	if OpTwo.String() != "two" {
		t.Fatalf("OpTwo = %q", OpTwo.String())
	}
}
