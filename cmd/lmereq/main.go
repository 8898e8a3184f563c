// Command lmereq resolves a YAML batch of trades into the final request
// block without running the server.
//
// Usage:
//
//	lmereq -trades trades.yaml [-holidays holidays.json] [-confirm]
package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"lmedesk/internal/calendar"
	"lmedesk/internal/holidays"
	"lmedesk/internal/trade"
)

type batchFile struct {
	Company string        `yaml:"company"`
	Trades  []trade.Trade `yaml:"trades"`
}

func main() {
	tradesPath := flag.String("trades", "", "YAML file with the trade batch")
	holidaysPath := flag.String("holidays", "", "holiday JSON file (year-keyed ISO dates)")
	calType := flag.String("calendar", "gregorian", "calendar type for date formatting")
	honorFix := flag.Bool("honor-fix-date", false, "settle Fix legs on their manual fixing date when paired with AVG")
	confirm := flag.Bool("confirm", false, "also print the confirmation sentence per trade")
	flag.Parse()

	if *tradesPath == "" {
		fmt.Fprintln(os.Stderr, "usage: lmereq -trades trades.yaml [-holidays holidays.json]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*tradesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lmereq: %v\n", err)
		os.Exit(1)
	}
	var batch batchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		fmt.Fprintf(os.Stderr, "lmereq: parse %s: %v\n", *tradesPath, err)
		os.Exit(1)
	}

	set := holidays.NewSet()
	if *holidaysPath != "" {
		loaded, err := holidays.LoadFile(*holidaysPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lmereq: %v\n", err)
			os.Exit(1)
		}
		for _, year := range loaded.Years() {
			set.Add(loaded.Dates(year)...)
		}
	}

	resolver, err := trade.NewResolver(set, trade.Policy{
		HonorFixDate:       *honorFix,
		InstructionsForC2R: true,
		Calendar:           calendar.Type(*calType),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "lmereq: %v\n", err)
		os.Exit(1)
	}

	results, block := resolver.ResolveBatch(batch.Company, batch.Trades)
	fmt.Println(block)

	if *confirm {
		fmt.Println()
		for _, res := range results {
			if res.Error != nil {
				fmt.Println(res.Error.Message)
				continue
			}
			fmt.Println(res.Confirmation)
		}
	}
}
