package main

import (
	"flag"
	"fmt"
	"os"

	"lendbook/process/report"
)

func main() {
	month := flag.String("month", "2025-08", "month to report (YYYY-MM)")
	area := flag.String("area", "", "restrict to a customer area")
	list := flag.Bool("list", false, "list matching transactions")
	flag.Parse()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "DB_DSN not set; export DB_DSN and retry")
		os.Exit(2)
	}

	report.RunMonthly(*month, *area, *list)
}
