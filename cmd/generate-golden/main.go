// Command generate-golden writes the digits of π used by the chudnovsky
// golden tests. The digits come from Machin's formula,
// π = 16·arctan(1/5) − 4·arctan(1/239), evaluated in fixed point with
// math/big, so the oracle shares no code with the series under test.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// goldenEntry is one case of pi_golden.json.
type goldenEntry struct {
	Digits int    `json:"digits"`
	Pi     string `json:"pi"`
}

// guardDigits absorbs the truncation error of the fixed-point arithmetic.
const guardDigits = 10

func main() {
	outputDir := flag.String("out", "internal/chudnovsky/testdata", "Output directory for the golden file")
	targets := flag.String("digits", "1,10,50,100", "Comma-separated decimal counts to generate")
	flag.Parse()

	counts, err := parseCounts(*targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	data := make([]goldenEntry, 0, len(counts))
	for _, digits := range counts {
		data = append(data, goldenEntry{Digits: digits, Pi: machinPi(digits)})
		fmt.Printf("Generated %d decimals\n", digits)
	}

	filename := filepath.Join(*outputDir, "pi_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		file.Close()
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}
	if err := file.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

func parseCounts(list string) ([]int, error) {
	var counts []int
	for _, field := range strings.Split(list, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid digit count %q", field)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

// machinPi returns π truncated to digits decimals.
func machinPi(digits int) string {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits+guardDigits)), nil)
	pi := new(big.Int).Mul(arctanInv(5, scale), big.NewInt(16))
	pi.Sub(pi, new(big.Int).Mul(arctanInv(239, scale), big.NewInt(4)))
	s := pi.String()
	return s[:1] + "." + s[1:1+digits]
}

// arctanInv returns arctan(1/x)·scale by its Taylor series.
func arctanInv(x int64, scale *big.Int) *big.Int {
	sum := new(big.Int)
	x2 := big.NewInt(x * x)
	power := new(big.Int).Quo(scale, big.NewInt(x))
	term := new(big.Int)
	for k := int64(0); power.Sign() != 0; k++ {
		term.Quo(power, big.NewInt(2*k+1))
		if k%2 == 0 {
			sum.Add(sum, term)
		} else {
			sum.Sub(sum, term)
		}
		power.Quo(power, x2)
	}
	return sum
}
