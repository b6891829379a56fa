package canopy

import (
	"errors"
	"math"
	"testing"
)

func TestEdgeCase_SingleRecord(t *testing.T) {
	s := numericSchema(t, 2)
	cfg := DefaultConfig()
	cfg.Logger = NoopLogger()

	result, err := Cluster(s, []Record{{1, 2}}, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Canopies) != 1 {
		t.Fatalf("expected 1 canopy, got %d", len(result.Canopies))
	}
	if result.Canopies[0].Density != 1 {
		t.Errorf("expected density 1, got %v", result.Canopies[0].Density)
	}
	// Too few values for the heuristic.
	if result.T2 != DefaultT2 {
		t.Errorf("expected T2 %v, got %v", DefaultT2, result.T2)
	}
}

func TestEdgeCase_AllIdenticalRecords(t *testing.T) {
	s := numericSchema(t, 2)
	data := make([]Record, 10)
	for i := range data {
		data[i] = Record{5, 5}
	}
	cfg := DefaultConfig()
	cfg.Logger = NoopLogger()
	cfg.NumClusters = 4

	result, err := Cluster(s, data, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Padding can't add a record equal to an existing center.
	if len(result.Canopies) != 1 {
		t.Fatalf("expected 1 canopy, got %d", len(result.Canopies))
	}
	if result.Canopies[0].Density != 10 {
		t.Errorf("expected density 10, got %v", result.Canopies[0].Density)
	}
	for _, v := range result.Canopies[0].Center {
		if math.IsNaN(v) {
			t.Error("unexpected NaN in center")
		}
	}
}

func TestEdgeCase_EmptyFit(t *testing.T) {
	s := numericSchema(t, 2)
	cfg := DefaultConfig()
	cfg.Logger = NoopLogger()

	result, err := Cluster(s, nil, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Canopies) != 0 {
		t.Errorf("expected no canopies, got %d", len(result.Canopies))
	}
	if result.T2 != DefaultT2 {
		t.Errorf("expected T2 %v, got %v", DefaultT2, result.T2)
	}
}

func TestEdgeCase_AllMissingAttribute(t *testing.T) {
	s := numericSchema(t, 2)
	data := []Record{{1, Missing()}, {1.1, Missing()}, {9, Missing()}}
	cfg := rawConfig(s, 1, 1.5)

	result, err := Cluster(s, data, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range result.Canopies {
		if !IsMissing(c.Center[1]) {
			t.Errorf("canopy %d: expected missing second attribute, got %v", i, c.Center[1])
		}
		if c.Membership.Count() == 0 {
			t.Errorf("canopy %d: empty membership", i)
		}
	}
}

func TestEdgeCase_CategoricalOnly(t *testing.T) {
	s, err := NewSchema(
		CategoricalAttribute("a", "x", "y"),
		CategoricalAttribute("b", "x", "y"),
	)
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Logger = NoopLogger()

	data := []Record{{0, 0}, {0, 0}, {1, 1}, {1, 1}, {0, 1}}
	result, err := Cluster(s, data, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// T2 = sqrt(0.25+0.25); any differing attribute puts records apart.
	if math.Abs(result.T2-math.Sqrt(0.5)) > 1e-12 {
		t.Errorf("expected T2 sqrt(0.5), got %v", result.T2)
	}
	if len(result.Canopies) != 3 {
		t.Errorf("expected 3 canopies, got %d", len(result.Canopies))
	}
}

func TestEdgeCase_ManyCanopiesSpanBlocks(t *testing.T) {
	s := numericSchema(t, 1)
	data := make([]Record, 130)
	for i := range data {
		data[i] = Record{float64(i * 10)}
	}
	c := streamed(t, s, rawConfig(s, 1, 1.5), data...)
	result := c.Finalize()

	if len(result.Canopies) != 130 {
		t.Fatalf("expected 130 canopies, got %d", len(result.Canopies))
	}
	for i, cp := range result.Canopies {
		if cp.Membership.Blocks() != 3 {
			t.Fatalf("canopy %d: expected 3 blocks, got %d", i, cp.Membership.Blocks())
		}
		if got := cp.Membership.Indices(); len(got) != 1 || got[0] != i {
			t.Errorf("canopy %d: membership %v", i, got)
		}
	}
}

func TestEdgeCase_InvalidRecordFailsFit(t *testing.T) {
	s := mixedSchema(t)
	cfg := rawConfig(s, 1, 1.5)

	_, err := Cluster(s, []Record{{1, 0}, {1, 7}}, cfg)
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
	_, err = Cluster(s, []Record{{math.Inf(1), 0}}, cfg)
	if err == nil {
		t.Error("expected error for infinite value")
	}
}

func TestEdgeCase_NegativeZeroPadding(t *testing.T) {
	s := numericSchema(t, 1)
	cfg := rawConfig(s, 0.5, 0.6)
	cfg.NumClusters = 3

	// 0 and -0 are the same record and can't both become centers.
	result, err := Cluster(s, points(0, math.Copysign(0, -1), 5), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Canopies) != 2 {
		t.Errorf("expected 2 canopies, got %d", len(result.Canopies))
	}
}
