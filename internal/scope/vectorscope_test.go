package scope

import "testing"

func TestVectorscopePairsChannels(t *testing.T) {
	cfg := testConfig()
	cfg.Scale = 2
	m := Matrix{{0.1, 0.2, 0.3, 0.4}, {-0.1, -0.2, -0.3, -0.4}}

	ds := NewVectorscope().Process(cfg, m)
	if len(ds) != 1 {
		t.Fatalf("expected 1 dataset, got %d", len(ds))
	}
	want := []Point{{0.2, -0.2}, {0.4, -0.4}, {0.6, -0.6}, {0.8, -0.8}}
	for i, p := range ds[0].Points {
		if !approx(p.X, want[i].X) || !approx(p.Y, want[i].Y) {
			t.Fatalf("point %d: expected %+v, got %+v", i, want[i], p)
		}
	}
}

func TestVectorscopeDropsOddChannel(t *testing.T) {
	m := Matrix{{0, 0, 0, 0}, {0, 0, 0, 0}, {1, 1, 1, 1}}
	ds := NewVectorscope().Process(testConfig(), m)
	if len(ds) != 1 {
		t.Fatalf("expected 1 dataset, got %d", len(ds))
	}
	if ds[0].Name != "0-1" {
		t.Fatalf("expected pair name 0-1, got %q", ds[0].Name)
	}
}

func TestVectorscopeReferenceCrosshair(t *testing.T) {
	cfg := testConfig()
	cfg.References = true
	ds := NewVectorscope().Process(cfg, Matrix{{0, 0, 0, 0}, {0, 0, 0, 0}})
	last := ds[len(ds)-1]
	if last.Kind != Segments || len(last.Points) != 4 {
		t.Fatalf("expected 2-segment crosshair, got %+v", last)
	}
}

func TestVectorscopeAxisIsSymmetric(t *testing.T) {
	cfg := testConfig()
	cfg.Scale = 0.5
	for _, d := range []Dimension{X, Y} {
		a := NewVectorscope().Axis(cfg, d)
		if a.Bounds != [2]float64{-0.5, 0.5} {
			t.Fatalf("expected ±0.5, got %v", a.Bounds)
		}
	}
}
