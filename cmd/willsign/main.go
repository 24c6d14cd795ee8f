package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/crypto"
	"github.com/iov-one/testament/x/will"
)

var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"keygen":  cmdKeygen,
	"sign":    cmdSign,
	"recover": cmdRecover,
}

func main() {
	if len(os.Args) == 1 {
		printUsage()
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	fmt.Fprintf(os.Stderr, "Usage: %s <cmd> [<flags>]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(available, "\n\t"))
}

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Generate a new private key. The hex encoded key is written to the output,
followed by its address.
		`)
		fl.PrintDefaults()
	}
	fl.Parse(args)

	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(output, "%s\n%s\n", key.Hex(), key.Address())
	return err
}

// attestationFlags are shared by every command that works with an
// attestation of a beneficiary.
type attestationFlags struct {
	chainID *uint64
	kind    *string
	willID  *uint64
	owner   *string
}

func registerAttestationFlags(fl *flag.FlagSet) attestationFlags {
	return attestationFlags{
		chainID: fl.Uint64("chain", 0, "Chain id the router configuration declares."),
		kind:    fl.String("kind", "custody", "Will kind, custody or forwarding."),
		willID:  fl.Uint64("will", 0, "Will id."),
		owner:   fl.String("owner", "", "Address of the will owner."),
	}
}

func (f attestationFlags) parse() (uint32, testament.Address, error) {
	var kind will.Kind
	switch *f.kind {
	case "custody":
		kind = will.Custody
	case "forwarding":
		kind = will.Forwarding
	default:
		return 0, nil, fmt.Errorf("unknown will kind %q", *f.kind)
	}
	if *f.willID == 0 {
		return 0, nil, fmt.Errorf("will id is required")
	}
	owner, err := testament.ParseAddress(*f.owner)
	if err != nil {
		return 0, nil, fmt.Errorf("owner: %s", err)
	}
	return uint32(kind), owner, nil
}

func cmdSign(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Sign the activation attestation of a will beneficiary. The hex encoded private
key of the beneficiary is read from the input. The hex encoded signature is
written to the output.
		`)
		fl.PrintDefaults()
	}
	att := registerAttestationFlags(fl)
	fl.Parse(args)

	kind, owner, err := att.parse()
	if err != nil {
		return err
	}
	key, err := readKey(input)
	if err != nil {
		return err
	}
	sig, err := crypto.SignWill(key, *att.chainID, kind, *att.willID, owner)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, hex.EncodeToString(sig))
	return err
}

func cmdRecover(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Read a hex encoded attestation signature from the input and print the address
that signed it for given beneficiary. The printed address equals the
beneficiary only if the signature is accepted by the will.
		`)
		fl.PrintDefaults()
	}
	att := registerAttestationFlags(fl)
	beneficiaryFl := fl.String("beneficiary", "", "Address of the beneficiary.")
	fl.Parse(args)

	kind, owner, err := att.parse()
	if err != nil {
		return err
	}
	beneficiary, err := testament.ParseAddress(*beneficiaryFl)
	if err != nil {
		return fmt.Errorf("beneficiary: %s", err)
	}
	line, err := readLine(input)
	if err != nil {
		return err
	}
	sig, err := hex.DecodeString(strings.TrimPrefix(line, "0x"))
	if err != nil {
		return fmt.Errorf("signature: %s", err)
	}
	signer, err := crypto.RecoverWillSigner(sig, *att.chainID, kind, *att.willID, owner, beneficiary)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(output, signer)
	return err
}

func readKey(input io.Reader) (*crypto.PrivateKey, error) {
	line, err := readLine(input)
	if err != nil {
		return nil, err
	}
	return crypto.KeyFromHex(line)
}

func readLine(input io.Reader) (string, error) {
	s := bufio.NewScanner(input)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("no input")
	}
	return strings.TrimSpace(s.Text()), nil
}
