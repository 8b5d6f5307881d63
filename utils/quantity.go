package utils

import "strconv"

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// ParseQuantity returns the first positive quantity in message, written
// either as digits or as an English word from one to ten.
func ParseQuantity(message string) (int, bool) {
	for _, tok := range Tokenize(message) {
		if n, ok := numberWords[tok]; ok {
			return n, true
		}
		if n, err := strconv.Atoi(tok); err == nil && n > 0 {
			return n, true
		}
	}
	return 0, false
}
