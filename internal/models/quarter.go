package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Quarter is a calendar year-quarter. The zero value is not a valid quarter.
type Quarter struct {
	Year int
	Q    int // 1..4
}

// Panel window and policy reference points.
var (
	PanelStart = Quarter{Year: 2010, Q: 1}
	PanelEnd   = Quarter{Year: 2019, Q: 4}

	// LASPO came into force at the end of 2012-q4; 2013-q1 is the first
	// quarter of impact and the cutoff used for the post indicator.
	LASPOQuarter  = Quarter{Year: 2013, Q: 1}
	RebaseQuarter = Quarter{Year: 2012, Q: 4}
)

// fqToCalQ maps Legal Aid Agency financial quarters onto calendar quarters.
// Financial Q4 (Jan-Mar) falls in the next calendar year.
var fqToCalQ = map[int]int{1: 2, 2: 3, 3: 4, 4: 1}

// QuarterFromFinancial converts a financial year start (e.g. 2012 for
// "2012-13") and financial quarter into the calendar quarter it covers.
func QuarterFromFinancial(fyStart, fq int) (Quarter, error) {
	calQ, ok := fqToCalQ[fq]
	if !ok {
		return Quarter{}, fmt.Errorf("invalid financial quarter %d", fq)
	}

	year := fyStart
	if fq == 4 {
		year++
	}

	return Quarter{Year: year, Q: calQ}, nil
}

// ParseQuarter parses the "2012-q4" form used throughout the panel.
func ParseQuarter(s string) (Quarter, error) {
	parts := strings.SplitN(s, "-q", 2)
	if len(parts) != 2 {
		return Quarter{}, fmt.Errorf("invalid quarter %q", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Quarter{}, fmt.Errorf("invalid quarter %q: %w", s, err)
	}

	q, err := strconv.Atoi(parts[1])
	if err != nil || q < 1 || q > 4 {
		return Quarter{}, fmt.Errorf("invalid quarter %q", s)
	}

	return Quarter{Year: year, Q: q}, nil
}

func (q Quarter) String() string {
	return fmt.Sprintf("%d-q%d", q.Year, q.Q)
}

// Index is a monotonic ordinal, usable for ordering and arithmetic.
func (q Quarter) Index() int {
	return q.Year*4 + q.Q - 1
}

func (q Quarter) Before(other Quarter) bool {
	return q.Index() < other.Index()
}

func (q Quarter) AtOrAfter(other Quarter) bool {
	return q.Index() >= other.Index()
}

// Next returns the following calendar quarter.
func (q Quarter) Next() Quarter {
	if q.Q == 4 {
		return Quarter{Year: q.Year + 1, Q: 1}
	}
	return Quarter{Year: q.Year, Q: q.Q + 1}
}

// QuarterRange returns every quarter from start to end inclusive, in order.
func QuarterRange(start, end Quarter) []Quarter {
	var quarters []Quarter
	for q := start; !end.Before(q); q = q.Next() {
		quarters = append(quarters, q)
	}
	return quarters
}
