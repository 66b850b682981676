package raycast

import "fmt"

// Stripe is the half-open column range [Start, End) owned by one worker.
type Stripe struct {
	Index int
	Start int
	End   int
}

// Width returns the number of columns in the stripe.
func (s Stripe) Width() int { return s.End - s.Start }

// Partition splits [0, width) into n contiguous stripes whose widths differ
// by at most one; the first width%n stripes get the extra column.
func Partition(width, n int) ([]Stripe, error) {
	if n < 1 || n > width {
		return nil, fmt.Errorf("cannot split %d columns into %d stripes", width, n)
	}
	base, rem := width/n, width%n
	stripes := make([]Stripe, n)
	start := 0
	for i := range stripes {
		w := base
		if i < rem {
			w++
		}
		stripes[i] = Stripe{Index: i, Start: start, End: start + w}
		start += w
	}
	return stripes, nil
}
