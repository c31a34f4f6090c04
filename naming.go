/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package entityext

import (
	"strings"
	"unicode"

	"github.com/suparena/entityext/errors"
)

// MethodNames are the identifiers generated for one table name.
type MethodNames struct {
	Pascal   string // "UserBadge"
	Camel    string // "userBadge"
	Create   string // "createUserBadge"
	Find     string // "findUserBadge"
	Remove   string // "removeUserBadge"
	FindBy   string // "findByUserBadge"
	Accessor string // "userBadge"
}

// All returns the five generated method names in registration order.
func (n MethodNames) All() []string {
	return []string{n.Create, n.Find, n.Remove, n.FindBy, n.Accessor}
}

// DeriveNames builds the method names for a table name. Words are split at
// non-alphanumeric runes and at lower-to-upper case changes, so "badge",
// "Badge", "user_badge" and "UserBadge" all work.
func DeriveNames(tableName string) (MethodNames, error) {
	if strings.TrimSpace(tableName) == "" {
		return MethodNames{}, errors.NewConfigError("tableName", "is required")
	}

	words := splitWords(tableName)
	if len(words) == 0 {
		return MethodNames{}, errors.NewConfigError("tableName", "contains no letters or digits")
	}
	if !unicode.IsLetter([]rune(words[0])[0]) {
		return MethodNames{}, errors.NewConfigError("tableName", "must start with a letter")
	}

	var pascal strings.Builder
	for _, w := range words {
		pascal.WriteString(upperFirst(w))
	}
	camel := strings.ToLower(words[0])
	for _, w := range words[1:] {
		camel += upperFirst(w)
	}

	p := pascal.String()
	return MethodNames{
		Pascal:   p,
		Camel:    camel,
		Create:   "create" + p,
		Find:     "find" + p,
		Remove:   "remove" + p,
		FindBy:   "findBy" + p,
		Accessor: camel,
	}, nil
}

func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(cur) > 0 {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			// "userBadge" splits before B; "HTTPLog" splits before L.
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

func upperFirst(w string) string {
	r := []rune(w)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
