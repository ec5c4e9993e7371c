// Package sampledata writes small national and state impact tables for
// fixtures, demos and load testing.
package sampledata

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/okian/enow/internal/domain/impact"
)

// File names written by WriteFixtures.
const (
	NationalFile = "national.csv"
	StateFile    = "states.csv"
)

// File permission for written tables.
const filePermission = 0o600

var nationalHeader = []string{
	impact.ColImpactType,
	impact.WageAndSalaryEmployment,
	impact.ProprietorEmployment,
	impact.WagesAndSalary,
	impact.ValueAdded,
	impact.Output,
}

var stateHeader = append([]string{impact.ColDestinationState}, nationalHeader...)

// National returns a national table of three rows: 3.9 million jobs, $250
// billion in wages, $330 billion in GDP and $500 billion of output in total.
func National() [][]string {
	return [][]string{
		nationalHeader,
		{"Direct", "2300000", "400000", "150000000000", "200000000000", "300000000000"},
		{"Indirect", "1000000", "150000", "60000000000", "80000000000", "120000000000"},
		{"Induced", "600000", "50000", "40000000000", "50000000000", "80000000000"},
	}
}

// States returns a state table with known breakdowns: California has 500,000
// of the 4,000,000 wage and salary jobs, Texas has Direct and Indirect rows
// and Florida only Induced.
func States() [][]string {
	return [][]string{
		stateHeader,
		{"California", "Direct", "500000", "0", "30000000000", "40000000000", "10000000000"},
		{"Texas", "Direct", "1500000", "0", "90000000000", "100000000000", "30000000000"},
		{"Texas", "Indirect", "1000000", "0", "50000000000", "60000000000", "20000000000"},
		{"Florida", "Induced", "1000000", "0", "40000000000", "50000000000", "25000000000"},
	}
}

// Generate returns a random state table with one row per state and impact
// type. The same seed always yields the same table.
func Generate(seed uint64, states []string) [][]string {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := [][]string{stateHeader}
	for _, state := range states {
		for i, it := range impact.ImpactTypes() {
			// indirect and induced effects shrink
			scale := 1.0 / float64(i+1)
			jobs := float64(5_000+rng.IntN(400_000)) * scale
			wage := 40_000 + rng.Float64()*40_000
			wages := jobs * wage
			gdp := wages * (1.2 + rng.Float64()*0.4)
			output := gdp * (1.5 + rng.Float64())
			out = append(out, []string{
				state,
				string(it),
				format(jobs),
				format(jobs * 0.15),
				format(wages),
				format(gdp),
				format(output),
			})
		}
	}
	return out
}

func format(v float64) string {
	return strconv.FormatFloat(float64(int64(v)), 'f', 0, 64)
}

// WriteFixtures writes National and States as CSV files under dir.
func WriteFixtures(dir string) (nationalPath, statePath string, err error) {
	nationalPath = filepath.Join(dir, NationalFile)
	statePath = filepath.Join(dir, StateFile)
	if err := WriteCSV(nationalPath, National()); err != nil {
		return "", "", err
	}
	if err := WriteCSV(statePath, States()); err != nil {
		return "", "", err
	}
	return nationalPath, statePath, nil
}

// WriteCSV writes records as a comma separated file.
func WriteCSV(path string, records [][]string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteXLSX writes records to the first sheet of a workbook. Cells that parse
// as numbers are stored as numbers.
func WriteXLSX(path string, records [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for r, rec := range records {
		for c, v := range rec {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			var value any = v
			if n, err := strconv.ParseFloat(v, 64); err == nil && r > 0 {
				value = n
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
