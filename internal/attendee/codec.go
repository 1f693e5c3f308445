package attendee

import (
	"sort"
	"strconv"
	"strings"
)

// The attendee service stores the two largest t-shirt sizes under different
// names than the UI uses. All other sizes pass through unchanged.
func tshirtFromAPI(apiValue string) string {
	switch apiValue {
	case "3XL":
		return "m3XL"
	case "4XL":
		return "m4XL"
	default:
		return apiValue
	}
}

func tshirtToAPI(frontendValue string) string {
	switch frontendValue {
	case "m3XL":
		return "3XL"
	case "m4XL":
		return "4XL"
	default:
		return frontendValue
	}
}

// CountAsNumber decodes a "c<N>"-encoded option value ("c7" -> 7). A bare
// number without the prefix decodes as well.
func CountAsNumber(code string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(code, "c"))
	if err != nil {
		return 0
	}

	return n
}

// EncodeCount is the inverse of CountAsNumber.
func EncodeCount(n int) string {
	return "c" + strconv.Itoa(n)
}

func splitNonEmpty(joined string) []string {
	var out []string
	for _, token := range strings.Split(joined, ",") {
		if token != "" {
			out = append(out, token)
		}
	}

	return out
}

func joinNonEmpty(tokens []string) string {
	var kept []string
	for _, token := range tokens {
		if token != "" {
			kept = append(kept, token)
		}
	}

	return strings.Join(kept, ",")
}

// splitSet decodes a comma-joined token set, dropping empty tokens.
func splitSet(joined string) map[string]bool {
	set := make(map[string]bool)
	for _, token := range strings.Split(joined, ",") {
		if token != "" {
			set[token] = true
		}
	}

	return set
}

// joinSet encodes a token set as a comma-joined string. Only tokens mapped
// to true are emitted; the output is sorted for determinism.
func joinSet(set map[string]bool) string {
	tokens := make([]string, 0, len(set))
	for token, on := range set {
		if on {
			tokens = append(tokens, token)
		}
	}
	sort.Strings(tokens)

	return strings.Join(tokens, ",")
}
