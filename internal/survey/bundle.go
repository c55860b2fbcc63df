package survey

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

var ErrInvalidBundle = errors.New("invalid bundle")

// Bundle is the static dataset supplied at startup: raw records plus the
// rollups computed from them.
type Bundle struct {
	Records    []EvaluationRecord `json:"records"`
	Aggregates AggregatedTables   `json:"aggregates"`
}

// Validate checks every record. Rollups are accepted as given apart from
// negative counts.
func (b *Bundle) Validate() error {
	for i := range b.Records {
		if err := b.Records[i].Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
		}
	}
	var bad error
	check := func(where string, t *YearlyTable) {
		t.Each(func(period string, row ScoreRow) {
			if bad == nil && row.Count < 0 {
				bad = fmt.Errorf("%w: %s %s has negative count %d", ErrInvalidBundle, where, period, row.Count)
			}
		})
	}
	check("hospital", b.Aggregates.Hospital)
	b.Aggregates.Divisions.Each(func(division string, years *YearlyTable) {
		check(division, years)
	})
	return bad
}

// Years lists the hospital table's periods, the year filter's options.
func (b *Bundle) Years() []string {
	return b.Aggregates.Hospital.Periods()
}

// Divisions lists the division table's names, the division filter's options.
func (b *Bundle) Divisions() []string {
	return b.Aggregates.Divisions.Names()
}

// Fingerprint identifies the bundle contents for cache keys. Every string
// and list is length-prefixed, so moving bytes between adjacent fields
// changes the hash.
func (b *Bundle) Fingerprint() string {
	fp := fingerprinter{h: xxhash.New()}
	fp.count(len(b.Records))
	for _, r := range b.Records {
		fp.strings(r.ID, r.Year, r.Period, r.EvaluatorDepartment, r.EvaluatorDivision,
			r.Department, r.Division, r.Unit, string(r.Sentiment), r.Text)
		for _, d := range Dimensions {
			fp.float(r.Score(d))
		}
		fp.count(len(r.Keywords))
		fp.strings(r.Keywords...)
	}
	writeTable := func(t *YearlyTable) {
		fp.count(t.Len())
		t.Each(func(period string, row ScoreRow) {
			fp.strings(period)
			fp.count(row.Count)
			for _, d := range Dimensions {
				fp.float(row.Value(d))
			}
		})
	}
	writeTable(b.Aggregates.Hospital)
	fp.count(b.Aggregates.Divisions.Len())
	b.Aggregates.Divisions.Each(func(division string, years *YearlyTable) {
		fp.strings(division)
		writeTable(years)
	})
	return strconv.FormatUint(fp.h.Sum64(), 16)
}

type fingerprinter struct {
	h   *xxhash.Digest
	buf [8]byte
}

func (f *fingerprinter) count(n int) {
	binary.LittleEndian.PutUint64(f.buf[:], uint64(n))
	_, _ = f.h.Write(f.buf[:])
}

func (f *fingerprinter) float(v float64) {
	binary.LittleEndian.PutUint64(f.buf[:], math.Float64bits(v))
	_, _ = f.h.Write(f.buf[:])
}

func (f *fingerprinter) strings(values ...string) {
	for _, v := range values {
		f.count(len(v))
		_, _ = f.h.WriteString(v)
	}
}
