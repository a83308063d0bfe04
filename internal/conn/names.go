package conn

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeName applies the join-time name rules (§4.3 Joined): trim
// surrounding whitespace, replace a blank or literal "Deuce" name with
// "Deuce<id>", then dedupe against every other currently-joined name
// by appending the smallest integer that makes it unique.
func NormalizeName(raw string, id uint8, taken map[string]bool) string {
	name := strings.TrimSpace(raw)
	if name == "" || name == "Deuce" {
		name = fmt.Sprintf("Deuce%d", id)
	}

	candidate := name
	for n := 1; taken[strings.ToLower(candidate)]; n++ {
		candidate = name + strconv.Itoa(n)
	}
	return candidate
}
