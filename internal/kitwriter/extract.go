package kitwriter

import (
	"bufio"
	"bytes"
	"strings"
)

// ExtractOperationIDs does a line-oriented scan of spec text for the literal
// substring "operationId" followed on the same line by a ":". The value
// after that colon has every leading and trailing space, tab, '"' and '\''
// trimmed, so mismatched quotes such as "foo' also reduce to foo. Order is
// preserved; duplicates are
// preserved. This is deliberately not a real OpenAPI parser.
func ExtractOperationIDs(content []byte) []string {
	var operations []string

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()

		pos := strings.Index(line, "operationId")
		if pos == -1 {
			continue
		}

		colon := strings.Index(line[pos:], ":")
		if colon == -1 {
			continue
		}
		colon += pos

		value := strings.Trim(line[colon+1:], " \t\"'")
		if value != "" {
			operations = append(operations, value)
		}
	}

	return operations
}
