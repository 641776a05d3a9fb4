package ws

import "testing"

func TestQueueCap(t *testing.T) {
	cases := []struct {
		name                  string
		requested, configured int
		want                  int
	}{
		{"client request wins", 16, 8, 16},
		{"configured default", 0, 12, 12},
		{"fallback when unconfigured", 0, 0, 8},
		{"negative request uses default", -1, 12, 12},
		{"ceiling", 500, 8, 64},
		{"configured above ceiling", 0, 500, 64},
	}
	for _, tc := range cases {
		if got := queueCap(tc.requested, tc.configured); got != tc.want {
			t.Fatalf("%s: queueCap(%d, %d) = %d, want %d", tc.name, tc.requested, tc.configured, got, tc.want)
		}
	}
}
