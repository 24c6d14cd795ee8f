package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/x/router"
)

var templates = map[string]string{
	"custody":    crypto.TemplateCustodyWill,
	"forwarding": crypto.TemplateForwardingWill,
}

//nolint
func main() {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	kindFl := fl.String("kind", "custody", "Will kind, custody or forwarding.")
	offsetFl := fl.Uint64("offset", 0, "Owner nonce of the first printed will.")
	limitFl := fl.Int("limit", 10, "Print N will addresses.")
	headerFl := fl.Bool("header", true, "Display header")
	bech32Fl := fl.Bool("bech32", false, "Print addresses in bech32 format.")
	fl.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage:
	%s [options] <owner address>

Print addresses of the wills and guards the router creates for an owner.

The router derives every address from the owner and the number of wills the
owner created before. Addresses are deterministic and can be referenced
before the will exists, for example in a funding transaction.

`, os.Args[0])
		fl.PrintDefaults()
	}
	fl.Parse(os.Args[1:])

	if fl.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Owner address is required.")
		os.Exit(2)
	}
	owner, err := testament.ParseAddress(fl.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid owner address: %s\n", err)
		os.Exit(2)
	}
	template, ok := templates[*kindFl]
	if !ok {
		fmt.Fprintln(os.Stderr, "Unknown will kind.")
		os.Exit(2)
	}
	if *limitFl < 1 {
		fmt.Fprintln(os.Stderr, "Limit must be greater than zero.")
		os.Exit(2)
	}

	if err := printAddresses(os.Stdout, owner, template, *headerFl, *bech32Fl, *limitFl, *offsetFl); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printAddresses(out io.Writer, owner testament.Address, template string, header, b32 bool, limit int, offset uint64) error {
	w := tabwriter.NewWriter(out, 2, 0, 2, ' ', 0)
	defer w.Flush()

	if header {
		fmt.Fprintln(w, "nonce\twill\tguard")
	}
	for i := offset; i < offset+uint64(limit); i++ {
		will, err := format(crypto.CreateAddress2(router.Address, owner, i, template), b32)
		if err != nil {
			return err
		}
		guard, err := format(crypto.CreateAddress2(router.Address, owner, i, crypto.TemplateGuard), b32)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, will, guard)
	}
	return nil
}

func format(a testament.Address, b32 bool) (string, error) {
	if b32 {
		return a.Bech32()
	}
	return a.String(), nil
}
