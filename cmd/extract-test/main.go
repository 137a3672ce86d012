package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cardwatch/backend/internal/extractor"
	"github.com/cardwatch/backend/internal/model"
	"github.com/cardwatch/backend/pkg/datetime"
)

func main() {
	timezone := flag.String("tz", datetime.DefaultTimezone, "reference timezone for zone-less datetimes")
	company := flag.String("company", "", "card company hint (mufg, smbc, rakuten, jcb); empty for auto-detect")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-tz zone] [-company name] <email-file>\n", os.Args[0])
		os.Exit(2)
	}

	emailText, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}

	loc, err := datetime.ReferenceLocation(*timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid timezone %q: %v\n", *timezone, err)
		os.Exit(1)
	}

	var known *model.CardCompany
	if *company != "" {
		c := model.CardCompany(*company)
		if !c.IsValid() {
			fmt.Fprintf(os.Stderr, "Unknown card company %q\n", *company)
			os.Exit(1)
		}
		known = &c
	}

	fmt.Println("=== Extraction Test ===")

	usage, err := extractor.New(loc).Extract(string(emailText), known)
	if err != nil {
		fmt.Printf("Extraction failed: %v\n", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(usage, "", "  ")
	fmt.Printf("%s\n", out)
}
