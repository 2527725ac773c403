package main

import (
	"flag"
	"fmt"
	"os"

	"tos-asset-extract/internal/ies"
	"tos-asset-extract/internal/ipf"
)

func main() {
	maxRows := flag.Int("n", 20, "Max rows to print")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage: iesdump [-n N] archive.ipf entry.ies")
		os.Exit(2)
	}

	arc, err := ipf.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	data, err := arc.Extract(flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	table, err := ies.Parse(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cols := table.Columns()
	fmt.Printf("%s: %d columns, %d rows\n", table.Name, len(cols), table.RowCount())
	for _, c := range cols {
		fmt.Printf("  %s", c)
	}
	fmt.Println()

	rows := table.RowCount()
	if rows > *maxRows {
		rows = *maxRows
	}
	for r := 0; r < rows; r++ {
		for _, c := range cols {
			v, _ := table.Get(c, r)
			if v.IsString {
				fmt.Printf("  %q", v.String)
			} else {
				fmt.Printf("  %g", v.Float)
			}
		}
		fmt.Println()
	}
}
