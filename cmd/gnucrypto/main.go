// Package main provides the gnucrypto command-line tool for listing,
// self-testing and using the library's ciphers and digests.
package main

import (
	"bufio"
	"bytes"
	stdcipher "crypto/cipher"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/opd-ai/gnucrypto"
	"github.com/sirupsen/logrus"
)

var errUsage = errors.New("usage")

// CLIConfig holds the global flags.
type CLIConfig struct {
	logLevel string
	help     bool
}

// parseGlobalFlags parses flags preceding the subcommand.
func parseGlobalFlags(args []string, stderr io.Writer) (*CLIConfig, []string, error) {
	config := &CLIConfig{}
	fs := flag.NewFlagSet("gnucrypto", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&config.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.BoolVar(&config.help, "help", false, "Show help message")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return config, fs.Args(), nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "gnucrypto - block ciphers and message digests")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gnucrypto [-log-level LEVEL] <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list                                 list cipher and hash names")
	fmt.Fprintln(w, "  selftest                             run every known-answer test")
	fmt.Fprintln(w, "  digest -a NAME [files...]            hash files, or stdin")
	fmt.Fprintln(w, "  encrypt -c NAME -k HEX -iv HEX       CBC/PKCS#7 encrypt stdin to stdout")
	fmt.Fprintln(w, "  decrypt -c NAME -k HEX -iv HEX       CBC/PKCS#7 decrypt stdin to stdout")
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	config, rest, err := parseGlobalFlags(args, stderr)
	if err != nil {
		return 2
	}
	if config.help || len(rest) == 0 {
		printUsage(stdout)
		if config.help {
			return 0
		}
		return 2
	}

	level, err := logrus.ParseLevel(config.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "invalid log level %q\n", config.logLevel)
		return 2
	}
	logrus.SetLevel(level)
	logrus.SetOutput(stderr)

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "list":
		err = runList(stdout)
	case "selftest":
		err = runSelfTest(stdout)
	case "digest":
		err = runDigest(cmdArgs, stdin, stdout, stderr)
	case "encrypt", "decrypt":
		err = runCrypt(cmd == "encrypt", cmdArgs, stdin, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		printUsage(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintf(stderr, "gnucrypto %s: %v\n", cmd, err)
		return 1
	}
}

func runList(stdout io.Writer) error {
	fmt.Fprintf(stdout, "ciphers: %s\n", strings.Join(gnucrypto.CipherNames(), " "))
	fmt.Fprintf(stdout, "hashes:  %s\n", strings.Join(gnucrypto.HashNames(), " "))
	return nil
}

func runSelfTest(stdout io.Writer) error {
	results := gnucrypto.SelfTestAll()
	names := make([]string, 0, len(results))
	for n := range results {
		names = append(names, n)
	}
	sort.Strings(names)

	failed := 0
	for _, n := range names {
		status := "ok"
		if !results[n] {
			status = "FAILED"
			failed++
		}
		fmt.Fprintf(stdout, "%-10s %s\n", n, status)
	}
	if failed > 0 {
		return fmt.Errorf("%d primitive(s) failed", failed)
	}
	return nil
}

func runDigest(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	algo := fs.String("a", "sha-160", "hash algorithm")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	d, err := gnucrypto.NewHash(*algo)
	if err != nil {
		return err
	}

	if fs.NArg() == 0 {
		if _, err := io.Copy(d, stdin); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%x  -\n", d.Digest())
		return nil
	}
	for _, path := range fs.Args() {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(d, bufio.NewReader(f))
		f.Close()
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%x  %s\n", d.Digest(), path)
	}
	return nil
}

func runCrypt(encrypt bool, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("crypt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("c", "rijndael", "cipher name")
	keyHex := fs.String("k", "", "key in hex")
	ivHex := fs.String("iv", "", "IV in hex, one block long (default all zero)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	key, err := hex.DecodeString(*keyHex)
	if err != nil {
		return fmt.Errorf("decode key: %w", err)
	}
	blk, err := gnucrypto.NewBlock(*name, key)
	if err != nil {
		return err
	}
	defer blk.Wipe()

	iv := make([]byte, blk.BlockSize())
	if *ivHex != "" {
		if iv, err = hex.DecodeString(*ivHex); err != nil {
			return fmt.Errorf("decode iv: %w", err)
		}
		if len(iv) != blk.BlockSize() {
			return fmt.Errorf("iv must be %d bytes, got %d", blk.BlockSize(), len(iv))
		}
	}

	in, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}

	var out []byte
	if encrypt {
		out = pad(in, blk.BlockSize())
		stdcipher.NewCBCEncrypter(blk, iv).CryptBlocks(out, out)
	} else {
		if len(in) == 0 || len(in)%blk.BlockSize() != 0 {
			return fmt.Errorf("ciphertext length %d is not a positive multiple of %d", len(in), blk.BlockSize())
		}
		stdcipher.NewCBCDecrypter(blk, iv).CryptBlocks(in, in)
		if out, err = unpad(in, blk.BlockSize()); err != nil {
			return err
		}
	}
	_, err = stdout.Write(out)
	return err
}

// pad applies PKCS#7 padding.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad removes and checks PKCS#7 padding.
func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty input")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
