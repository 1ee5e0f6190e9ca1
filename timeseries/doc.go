// Package timeseries provides the Panel type and the readers that build it.
//
// A Panel holds a multivariate series as a T×N gonum matrix: one row per time
// step, one column per variable (a transformer load channel, a weather
// measurement, an electricity client, a traffic sensor).
//
// # Creating a Panel
//
//	p, err := timeseries.FromRows([][]float64{
//	    {5.8, 2.0, 30.5},
//	    {5.7, 2.1, 27.8},
//	})
//
// # Loading from CSV
//
// Files with a header and a leading date column (ETTh1, weather):
//
//	p, err := timeseries.LoadCSV("data/ETTh1/ETTh1.csv", timeseries.DefaultCSVOptions())
//
// Headerless numeric dumps (electricity.txt):
//
//	p, err := timeseries.LoadCSV("data/Elec/electricity.txt", timeseries.TextOptions())
//
// Every row must carry the same number of values. Missing cells are an error
// rather than being skipped, because dropping a cell would shift a column.
//
// # Slicing
//
//	train := p.Slice(0, 1000) // view, shares storage
//	owned := train.Copy()
//	zeros := p.ZeroRatio()
package timeseries
