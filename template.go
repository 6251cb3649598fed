package dialface

import (
	"fmt"
	"strings"
)

var weekDays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
var weekDaysShort = [7]string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}

var months = [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"}
var monthsShort = [12]string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// batteryIconGlyph is the FontAwesome full-battery symbol codepoint the
// built-in symbol fonts carry.
const batteryIconGlyph = "\uf240"

// placeholder pairs a literal token with its pure expansion function.
type placeholder struct {
	token  string
	expand func(c *Context) string
}

// placeholders is the fixed token registry, checked in order. No token is a
// prefix of a different token's literal form (the closing brace terminates
// each), so a single left-to-right pass per token is deterministic.
var placeholders = []placeholder{
	{"{YYYY}", func(c *Context) string { return fmt.Sprintf("%04d", c.Year) }},
	{"{MM}", func(c *Context) string { return fmt.Sprintf("%02d", c.Month) }},
	{"{DD}", func(c *Context) string { return fmt.Sprintf("%02d", c.Day) }},
	{"{M}", func(c *Context) string { return fmt.Sprintf("%d", c.Month) }},
	{"{D}", func(c *Context) string { return fmt.Sprintf("%d", c.Day) }},
	{"{D#0}", func(c *Context) string { return fmt.Sprintf("%02d", c.Day)[:1] }},
	{"{D#1}", func(c *Context) string { return fmt.Sprintf("%02d", c.Day)[1:] }},
	{"{HH}", func(c *Context) string { return fmt.Sprintf("%02d", c.Hour) }},
	{"{mm}", func(c *Context) string { return fmt.Sprintf("%02d", c.Minute) }},
	{"{ss}", func(c *Context) string { return fmt.Sprintf("%02d", c.Second) }},
	{"{day}", func(c *Context) string { return weekDays[clampIndex(c.Weekday, len(weekDays))] }},
	{"{day_short}", func(c *Context) string { return weekDaysShort[clampIndex(c.Weekday, len(weekDaysShort))] }},
	{"{month}", func(c *Context) string { return months[clampIndex(c.Month-1, len(months))] }},
	{"{month_short}", func(c *Context) string { return monthsShort[clampIndex(c.Month-1, len(monthsShort))] }},
	{"{battery_percent}", func(c *Context) string { return "100" }},
	{"{battery_icon}", func(c *Context) string { return batteryIconGlyph }},
}

// Resolve substitutes every registered placeholder present in template with
// its expansion for the given context. Unknown {...} sequences are left
// verbatim. Resolution is pure: a fixed context always yields the same
// output, and a string with no remaining tokens passes through unchanged.
func Resolve(template string, c *Context) string {
	if !strings.ContainsRune(template, '{') {
		return template
	}
	out := template
	for i := range placeholders {
		p := &placeholders[i]
		if strings.Contains(out, p.token) {
			out = strings.ReplaceAll(out, p.token, p.expand(c))
		}
	}
	return out
}

// clampIndex keeps table lookups in range for out-of-contract contexts.
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
