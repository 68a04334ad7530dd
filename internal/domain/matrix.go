package domain

import "fmt"

// MatrixPair is the immutable all-pairs time (seconds) and distance
// (meters) snapshot the optimizer and materializer read. Row/column 0
// is always the depot. A stop-set change invalidates the pair; the
// core never mutates one in place.
type MatrixPair struct {
	StopOrder []string    // stop id at each matrix index; index 0 is the depot
	T         [][]float64 // time seconds, T[i][j] = travel time from i to j
	D         [][]float64 // distance meters
	Hash      string      // snapshot fingerprint, stored on plan artifacts
}

// Validate checks the shape and diagonal invariants required by the
// data model: square matrices, dimension equal to stop count,
// T[i][i] = D[i][i] = 0, and non-negative entries. Off-diagonal
// symmetry is not required since road networks are directional.
func (m *MatrixPair) Validate() error {
	n := len(m.StopOrder)
	if n == 0 {
		return fmt.Errorf("%w: empty stop order", ErrBadInput)
	}
	if len(m.T) != n || len(m.D) != n {
		return fmt.Errorf("%w: matrix dimension %d does not match stop count %d", ErrBadInput, len(m.T), n)
	}
	for i := 0; i < n; i++ {
		if len(m.T[i]) != n || len(m.D[i]) != n {
			return fmt.Errorf("%w: matrix row %d is not square", ErrBadInput, i)
		}
		for j := 0; j < n; j++ {
			if m.T[i][j] < 0 || m.D[i][j] < 0 {
				return fmt.Errorf("%w: negative matrix entry at (%d,%d)", ErrBadInput, i, j)
			}
		}
		if m.T[i][i] != 0 || m.D[i][i] != 0 {
			return fmt.Errorf("%w: diagonal entry (%d,%d) must be zero", ErrBadInput, i, i)
		}
	}
	return nil
}

// IndexOf returns the matrix index for a stop id, or -1 if absent.
func (m *MatrixPair) IndexOf(stopID string) int {
	for i, id := range m.StopOrder {
		if id == stopID {
			return i
		}
	}
	return -1
}
