package mapper

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/peter-kozarec/equitycalc/pkg/equity"
)

// LoadSeries maps a BinaryStep file into a Series. The rollover column is
// kept only when withRollover is set.
func LoadSeries(dataSourceName string, withRollover bool) (equity.Series, error) {
	r := NewReader[BinaryStep](dataSourceName)
	if err := r.Open(); err != nil {
		return equity.Series{}, err
	}
	defer r.Close()

	entryCount, err := r.EntryCount()
	if err != nil {
		return equity.Series{}, err
	}

	series := equity.Series{
		Position:    make([]float64, 0, entryCount),
		OpeningCost: make([]float64, 0, entryCount),
		ClosingCost: make([]float64, 0, entryCount),
	}
	if withRollover {
		series.Rollover = make([]bool, 0, entryCount)
	}

	var (
		step BinaryStep
		bar  equity.Bar
	)
	for idx := int64(0); idx < entryCount; idx++ {
		if err := r.Read(idx, &step); err != nil {
			return equity.Series{}, err
		}
		step.ToBar(&bar)
		series.Append(bar, withRollover)
	}

	return series, nil
}

// WriteSeries stores series as consecutive BinaryStep records. Time stamps
// are taken from timeStamps when given, otherwise the record index is used.
func WriteSeries(dataSourceName string, series equity.Series, timeStamps []int64) error {
	if err := series.Validate(); err != nil {
		return err
	}
	if timeStamps != nil && len(timeStamps) != series.Len() {
		return fmt.Errorf("time stamp count %d does not match series length %d", len(timeStamps), series.Len())
	}

	f, err := os.Create(dataSourceName)
	if err != nil {
		return fmt.Errorf("unable to create %q: %w", dataSourceName, err)
	}

	w := bufio.NewWriter(f)
	for idx := 0; idx < series.Len(); idx++ {
		ts := int64(idx)
		if timeStamps != nil {
			ts = timeStamps[idx]
		}
		if err := binary.Write(w, binary.LittleEndian, FromBar(ts, series.Bar(idx))); err != nil {
			_ = f.Close()
			return fmt.Errorf("unable to write entry %d: %w", idx, err)
		}
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("unable to flush %q: %w", dataSourceName, err)
	}
	return f.Close()
}
