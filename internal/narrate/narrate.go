// Package narrate formats the player-facing text carried in encounter
// outcomes. Numbers are localized, so large gold amounts read "12,500 gold".
package narrate

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var tag = language.English

// Sprintf formats like fmt.Sprintf with locale-aware numbers.
func Sprintf(format string, a ...any) string {
	return message.NewPrinter(tag).Sprintf(format, a...)
}

// Gold renders an amount of gold.
func Gold(amount int) string {
	return Sprintf("%d gold", amount)
}

// Damage renders "<who> takes N damage".
func Damage(who string, amount int) string {
	return Sprintf("%s takes %d damage", who, amount)
}
