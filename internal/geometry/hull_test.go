package geometry

import (
	"math"
	"math/rand"
	"testing"
)

func TestCross(t *testing.T) {
	tests := []struct {
		name    string
		o, a, b Point
		want    int64
	}{
		{"left turn", Point{0, 0}, Point{1, 0}, Point{1, 1}, 1},
		{"right turn", Point{0, 0}, Point{1, 0}, Point{1, -1}, -1},
		{"collinear", Point{0, 0}, Point{1, 1}, Point{2, 2}, 0},
		{"large coordinates", Point{0, 0}, Point{100000, 0}, Point{0, 100000}, 10000000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cross(tt.o, tt.a, tt.b); got != tt.want {
				t.Errorf("Cross: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPerimeter(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	if got := Perimeter(square); math.Abs(got-40) > 1e-9 {
		t.Errorf("square perimeter: got %f, want 40", got)
	}
	if got := Perimeter([]Point{{3, 4}}); got != 0 {
		t.Errorf("single point perimeter: got %f, want 0", got)
	}
	// Two points form a degenerate closed polygon walked there and back.
	if got := Perimeter([]Point{{0, 0}, {3, 4}}); math.Abs(got-10) > 1e-9 {
		t.Errorf("segment perimeter: got %f, want 10", got)
	}
}

func TestConvexHull_Degenerate(t *testing.T) {
	if got := ConvexHull(nil); len(got) != 0 {
		t.Errorf("hull(nil): got %v, want empty", got)
	}

	single := []Point{{7, 3}}
	got := ConvexHull(single)
	if len(got) != 1 || got[0] != (Point{7, 3}) {
		t.Errorf("hull of single point: got %v, want [(7,3)]", got)
	}
}

func TestConvexHull_Square(t *testing.T) {
	// Outline and interior of a square, including collinear edge points.
	var pts []Point
	for y := 10; y <= 110; y += 10 {
		for x := 10; x <= 110; x += 10 {
			pts = append(pts, Point{x, y})
		}
	}

	hull := ConvexHull(pts)

	want := []Point{{10, 10}, {110, 10}, {110, 110}, {10, 110}}
	if len(hull) != len(want) {
		t.Fatalf("hull size: got %d (%v), want %d", len(hull), hull, len(want))
	}
	for i := range want {
		if hull[i] != want[i] {
			t.Errorf("hull[%d]: got %v, want %v", i, hull[i], want[i])
		}
	}
}

func TestConvexHull_Collinear(t *testing.T) {
	pts := []Point{{2, 0}, {0, 0}, {1, 0}, {3, 0}}

	hull := ConvexHull(pts)

	if len(hull) != 2 {
		t.Fatalf("collinear hull: got %v, want the 2 endpoints", hull)
	}
	if hull[0] != (Point{0, 0}) || hull[1] != (Point{3, 0}) {
		t.Errorf("collinear hull: got %v, want [(0,0) (3,0)]", hull)
	}
}

func TestConvexHull_DoesNotModifyInput(t *testing.T) {
	pts := []Point{{5, 5}, {0, 0}, {10, 0}, {0, 10}, {10, 10}}
	orig := make([]Point, len(pts))
	copy(orig, pts)

	_ = ConvexHull(pts)

	for i := range pts {
		if pts[i] != orig[i] {
			t.Fatalf("input modified at %d: got %v, want %v", i, pts[i], orig[i])
		}
	}
}

func TestConvexHull_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		n := 3 + rng.Intn(200)
		pts := make([]Point, n)
		inInput := make(map[Point]bool, n)
		for i := range pts {
			pts[i] = Point{rng.Intn(640), rng.Intn(480)}
			inInput[pts[i]] = true
		}

		hull := ConvexHull(pts)
		if len(hull) < 3 {
			// Random sets this large are practically never collinear.
			t.Fatalf("trial %d: hull has %d vertices", trial, len(hull))
		}

		for i := range hull {
			if !inInput[hull[i]] {
				t.Errorf("trial %d: hull vertex %v not in input", trial, hull[i])
			}

			a := hull[i]
			b := hull[(i+1)%len(hull)]
			c := hull[(i+2)%len(hull)]
			if Cross(a, b, c) <= 0 {
				t.Errorf("trial %d: vertices %v %v %v are collinear or turn the wrong way", trial, a, b, c)
			}

			// Every input point lies on the inner side of every hull edge.
			for _, p := range pts {
				if Cross(a, b, p) < 0 {
					t.Fatalf("trial %d: point %v outside edge %v-%v", trial, p, a, b)
				}
			}
		}
	}
}
