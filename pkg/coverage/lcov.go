package coverage

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// parseLcovFile reads the line-oriented LCOV trace format:
// SF:<path>, FN:<line>,<name>, FNDA:<hits>,<name>, DA:<line>,<hits>, and
// end_of_record delimiters.
func parseLcovFile(path string) (*Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data := NewData()
	var current *FileCoverage

	flush := func() {
		if current != nil {
			data.addFile(current)
			current = nil
		}
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "SF:"):
			flush()
			current = NewFileCoverage(strings.TrimSpace(line[3:]))
		case strings.HasPrefix(line, "FNDA:"):
			body := line[5:]
			comma := strings.IndexByte(body, ',')
			if comma < 0 {
				continue
			}
			hits, _ := strconv.Atoi(body[:comma])
			name := body[comma+1:]
			if hits > 0 {
				data.CoveredMethods[name] = true
				delete(data.UncoveredMethods, name)
			} else if !data.CoveredMethods[name] {
				data.UncoveredMethods[name] = true
			}
		case strings.HasPrefix(line, "DA:"):
			if current == nil {
				continue
			}
			parts := strings.Split(line[3:], ",")
			if len(parts) < 2 {
				continue
			}
			nr, _ := strconv.Atoi(parts[0])
			hits, _ := strconv.Atoi(parts[1])
			if nr <= 0 {
				continue
			}
			if hits > 0 {
				current.Covered[nr] = true
				delete(current.Uncovered, nr)
			} else if !current.Covered[nr] {
				current.Uncovered[nr] = true
			}
		case line == "end_of_record":
			flush()
		}
	}
	flush()
	return data, sc.Err()
}
