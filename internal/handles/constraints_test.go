package handles

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestResolveConstraints(t *testing.T) {
	start := orb.Point{1.0005, 2.0005}
	cases := []struct {
		name      string
		c         Constraints
		candidate orb.Point
		want      orb.Point
	}{
		{
			name:      "unconstrained passes through",
			c:         Constraints{},
			candidate: orb.Point{3.123, -4.567},
			want:      orb.Point{3.123, -4.567},
		},
		{
			name:      "lock x forces start longitude",
			c:         Constraints{LockAxis: AxisX},
			candidate: orb.Point{9, 5},
			want:      orb.Point{1.0005, 5},
		},
		{
			name:      "lock y forces start latitude",
			c:         Constraints{LockAxis: AxisY},
			candidate: orb.Point{9, 5},
			want:      orb.Point{9, 2.0005},
		},
		{
			name:      "snap rounds both axes",
			c:         Constraints{SnapToGrid: true},
			candidate: orb.Point{1.00042, 1.00051},
			want:      orb.Point{1.0, 1.001},
		},
		{
			name:      "snap after lock leaves locked axis off-grid",
			c:         Constraints{SnapToGrid: true, LockAxis: AxisX},
			candidate: orb.Point{7, 3.00049},
			want:      orb.Point{1.0005, 3.0},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveConstraints(tc.c, start, tc.candidate, DefaultGridStep)
			if !nearly(got[0], tc.want[0]) || !nearly(got[1], tc.want[1]) {
				t.Fatalf("resolve = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolveConstraints_ZeroStepUsesDefault(t *testing.T) {
	got := resolveConstraints(Constraints{SnapToGrid: true}, orb.Point{}, orb.Point{0.0016, 0}, 0)
	if !nearly(got[0], 0.002) {
		t.Fatalf("resolve with zero step = %v, want 0.002", got[0])
	}
}

func nearly(a, b float64) bool {
	d := a - b
	return d < 1e-12 && d > -1e-12
}
