package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alovak/cardcheck/cardvalidation"
	"github.com/alovak/cardcheck/internal/cardgen"
	"github.com/alovak/cardcheck/internal/checkerclient"
	"github.com/alovak/cardcheck/models"
)

var (
	flagNetwork  = flag.String("network", "VISA", "card network: VISA|MASTERCARD")
	flagBIN      = flag.String("bin", "", "6/8/9-digit BIN prefix (defaults to the network's demo BIN)")
	flagLength   = flag.Int("length", 16, "total PAN length (13..19)")
	flagSequence = flag.String("sequence", "", "optional numeric sequence (before check digit)")
	flagChecker  = flag.String("checker", "", "checker base URL; when set the PAN is validated remotely too")
	flagProduct  = flag.String("product", "", "checker product ID to register the PAN under (requires -checker)")
	flagShowOnly = flag.Bool("print", false, "print JSON only")
	flagVerbose  = flag.Bool("verbose", false, "print full PAN (otherwise masked)")
)

type result struct {
	PAN     string `json:"pan"`
	Network string `json:"network"`
	Valid   bool   `json:"valid"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

func main() {
	flag.Parse()

	network := models.NormalizeCardNetwork(*flagNetwork)
	bin := *flagBIN
	if bin == "" {
		bin = must1(cardgen.DefaultBIN(network))
	}
	pan := must1(cardgen.GeneratePAN(bin, *flagLength, *flagSequence))

	res := check(network, pan)
	if !*flagVerbose {
		res.PAN = cardgen.MaskPAN(pan)
	}

	if *flagShowOnly {
		enc, _ := json.MarshalIndent(res, "", "  ")
		fmt.Println(string(enc))
		return
	}

	printPAN := res.PAN
	if *flagVerbose {
		printPAN += "   (WARNING: printing full PAN)"
	}
	fmt.Printf("PAN: %s\nNETWORK: %s\n", printPAN, res.Network)
	if res.Valid {
		fmt.Println("LOCAL: valid")
	} else {
		fmt.Printf("LOCAL: %s (%s)\n", res.Type, res.Message)
	}

	if *flagChecker == "" {
		return
	}

	cli := checkerclient.New(strings.TrimRight(*flagChecker, "/"), &http.Client{Timeout: 10 * time.Second})
	ctx := context.Background()

	if err := cli.ValidateNetwork(ctx, string(network), pan); err != nil {
		var verr *cardvalidation.Error
		if !errors.As(err, &verr) {
			fail("%v", err)
		}
		fmt.Printf("CHECKER: %s (%s)\n", verr.Type(), verr.Message())
		return
	}
	fmt.Println("CHECKER: valid")

	if *flagProduct != "" {
		card := must1(cli.RegisterCard(ctx, *flagProduct, pan))
		fmt.Printf("REGISTERED: card %s (%s)\n", card.ID, card.Number)
	}
}

// check validates pan locally for an ad-hoc card of network.
func check(network models.CardNetwork, pan string) result {
	card := &models.Card{Product: &models.CardProduct{Network: network}}
	res := result{PAN: pan, Network: string(network), Valid: true}

	if err := cardvalidation.ValidateCardNumberLength(card, pan); err != nil {
		var verr *cardvalidation.Error
		if errors.As(err, &verr) {
			res.Type = verr.Type().String()
			res.Message = verr.Message()
		}
		res.Valid = false
	}
	return res
}

func must1[T any](v T, err error) T {
	if err != nil {
		fail("%v", err)
	}
	return v
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
