// Copyright 2025 AscendedCode

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package series

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/stockparfait/errors"
	"github.com/stockparfait/logging"

	"github.com/AscendedCode/onsdata/table"
)

// MetadataFile is the name of the batch index written next to the series
// CSV files.
const MetadataFile = "_metadata.csv"

// Table converts the rows of one series into a writable table.
func Table(rows []Row) *table.Table {
	t := table.NewTable("period", "period_label", "value")
	for _, r := range rows {
		t.AddRow(r)
	}
	return t
}

// metaRow is one line of the metadata index.
type metaRow struct {
	result   *Result
	filename string
}

var _ table.Row = metaRow{}

func (m metaRow) CSV() []string {
	r := m.result
	return []string{
		r.Spec.Dataset,
		m.filename,
		r.Spec.Label,
		r.Ref.Edition,
		strconv.Itoa(r.Ref.Version),
		strconv.Itoa(r.Stats.Count),
		strconv.Itoa(len(r.Failures)),
		r.Stats.First,
		r.Stats.Last,
		fmt.Sprintf("%.4f", r.Stats.Mean),
		fmt.Sprintf("%.4f", r.Stats.StdDev),
	}
}

func metadataHeader() []string {
	return []string{"dataset", "filename", "label", "edition", "version",
		"observations", "skipped", "period_start", "period_end", "mean", "stddev"}
}

func writeCSVFile(path string, t *table.Table) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Annotate(err, "failed to create '%s'", path)
	}
	defer f.Close()
	if err := t.WriteCSV(f, table.Params{}); err != nil {
		return errors.Annotate(err, "failed to write '%s'", path)
	}
	return nil
}

// WriteAll writes each successful series to its own CSV file in dir, plus
// the metadata index. Failed series are skipped; they are reported by
// LogSummary.
func WriteAll(ctx context.Context, dir string, results []*Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Annotate(err, "failed to create output dir '%s'", dir)
	}
	meta := table.NewTable(metadataHeader()...)
	written := 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		name := Filename(r.Spec.Label)
		if err := writeCSVFile(filepath.Join(dir, name), Table(r.Rows)); err != nil {
			return err
		}
		meta.AddRow(metaRow{result: r, filename: name})
		written++
	}
	if written == 0 {
		return errors.Reason("no series were downloaded successfully")
	}
	if err := writeCSVFile(filepath.Join(dir, MetadataFile), meta); err != nil {
		return err
	}
	logging.Infof(ctx, "wrote %d series to %s", written, dir)
	return nil
}
