// Package evaluation scores the predictor against recorded installations.
package evaluation

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Actual is one recorded installation.
type Actual struct {
	Location       string  `json:"location"`
	NumberOfODU    int     `json:"numberOfODU"`
	TypeOfODU      string  `json:"typeOfODU"`
	ODUSize        string  `json:"oduSize"`
	NumberOfIDU    int     `json:"numberOfIDU"`
	TypeOfIDU      string  `json:"typeOfIDU"`
	IDUSize        string  `json:"iduSize"`
	ElectricalWork float64 `json:"electricalWork"`
	HVACWork       float64 `json:"hvacWork"`
	Rebate         float64 `json:"rebate"`
	ClosedPrice    string  `json:"closedPrice"`
}

const (
	colLocation   = "Location"
	colODUCount   = "#of ODU"
	colODUType    = "Type of ODU"
	colODUSize    = "ODU size"
	colIDUCount   = "# of IDU"
	colIDUType    = "Type of IDU"
	colIDUSize    = "IDU size"
	colElectrical = "Electrical Work"
	colHVAC       = "HVAC Work"
	colRebate     = "Rebate"
	colClosed     = "Closed Price"
)

var leadingNumber = regexp.MustCompile(`^[-+]?\d+(\.\d+)?`)

// LoadActuals reads a TSV export from disk.
func LoadActuals(path string) ([]Actual, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open actuals: %w", err)
	}
	defer f.Close()
	return ReadActuals(f)
}

// ReadActuals parses the TSV. The example row and rows with fewer cells than
// the header are skipped.
func ReadActuals(r io.Reader) ([]Actual, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read actuals: %w", err)
	}
	if len(lines) < 2 {
		return nil, fmt.Errorf("TSV file is empty or has no data rows")
	}

	headers := strings.Split(lines[0], "\t")
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.TrimSpace(h)] = i
	}

	out := make([]Actual, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, "\t")
		if strings.Contains(strings.ToLower(values[0]), "example") {
			continue
		}
		if len(values) < len(headers) {
			continue
		}

		cell := func(name string) string {
			i, ok := index[name]
			if !ok {
				return ""
			}
			return strings.TrimSpace(strings.Trim(values[i], `"`))
		}

		out = append(out, Actual{
			Location:       cell(colLocation),
			NumberOfODU:    parseLeadingInt(cell(colODUCount)),
			TypeOfODU:      cell(colODUType),
			ODUSize:        cell(colODUSize),
			NumberOfIDU:    parseLeadingInt(cell(colIDUCount)),
			TypeOfIDU:      cell(colIDUType),
			IDUSize:        cell(colIDUSize),
			ElectricalWork: parseLeadingFloat(cell(colElectrical)),
			HVACWork:       parseLeadingFloat(strings.Replace(cell(colHVAC), "#", "0", 1)),
			Rebate:         parseLeadingFloat(strings.Replace(cell(colRebate), "#", "0", 1)),
			ClosedPrice:    cell(colClosed),
		})
	}
	return out, nil
}

func parseLeadingFloat(s string) float64 {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseLeadingInt(s string) int {
	return int(parseLeadingFloat(s))
}
