// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package recipesave

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

var amountForms = []*regexp.Regexp{
	regexp.MustCompile(`^\d+(\.\d+)?$`),
	regexp.MustCompile(`^\d+/[1-9]\d*$`),
	regexp.MustCompile(`^\d+ \d+/[1-9]\d*$`),
}

// NormalizeAmount folds full-width characters to ASCII and collapses runs of
// whitespace, so "１ １/２ " becomes "1 1/2".
func NormalizeAmount(amount string) string {
	return strings.Join(strings.Fields(width.Narrow.String(amount)), " ")
}

// ValidAmount returns whether a normalized amount is empty, an integer, a
// decimal, a fraction or a mixed fraction.
func ValidAmount(amount string) bool {
	if amount == "" {
		return true
	}
	for _, re := range amountForms {
		if re.MatchString(amount) {
			return true
		}
	}
	return false
}
