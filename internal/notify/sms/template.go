package sms

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gramkart/gramkart-backend/pkg/db/models"
)

const (
	itemListBudget = 30
	addressSegMax  = 40
	addressSegs    = 3
)

// TemplateVars are the positional variables filled into the gateway's
// order-confirmation flow template.
type TemplateVars struct {
	MerchantName string // var1
	ItemsPart1   string // var2
	ItemsPart2   string // var3
	Amount       string // var4
	AddressLine1 string // var5
	AddressLine2 string // var6
	AddressLine3 string // var7
}

// BuildOrderVars assembles the template variables for a confirmed order.
func BuildOrderVars(merchantName string, order *models.Order) TemplateVars {
	part1, part2 := SplitItemList(FormatItems(order.Items), itemListBudget)

	address := ""
	if order.Address != nil {
		address = *order.Address
	}
	segs := SplitAddress(address)

	return TemplateVars{
		MerchantName: merchantName,
		ItemsPart1:   part1,
		ItemsPart2:   part2,
		Amount:       FormatAmount(order.TotalAmount),
		AddressLine1: segs[0],
		AddressLine2: segs[1],
		AddressLine3: segs[2],
	}
}

// FormatAmount renders a rupee amount with exactly two decimals.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatItems renders line items as "2 x Red Shirt (M), 1 x Chai (250g)".
func FormatItems(items []models.OrderLineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		entry := fmt.Sprintf("%d x %s", item.Qty, item.Name)
		if item.UnitLabel != "" {
			entry += fmt.Sprintf(" (%s)", item.UnitLabel)
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, ", ")
}

// SplitItemList returns the item list unchanged when it fits the budget.
// Over budget it splits at the comma nearest the midpoint, or at the hard
// midpoint when the list has no commas.
func SplitItemList(items string, budget int) (string, string) {
	if len(items) <= budget {
		return items, ""
	}

	mid := len(items) / 2
	split := -1
	for i, r := range items {
		if r != ',' {
			continue
		}
		if split == -1 || abs(i-mid) < abs(split-mid) {
			split = i
		}
	}
	if split == -1 {
		// No comma to break on; halve by rune so multibyte names survive.
		runes := []rune(items)
		half := len(runes) / 2
		return string(runes[:half]), strings.TrimSpace(string(runes[half:]))
	}
	return items[:split], strings.TrimSpace(items[split+1:])
}

// SplitAddress packs an address into up to three segments of at most 40
// characters, breaking at word boundaries. A single word longer than a
// segment is hard-cut. Text beyond the third segment is dropped.
func SplitAddress(address string) [addressSegs]string {
	var segs [addressSegs]string
	words := strings.Fields(address)

	idx := 0
	for len(words) > 0 && idx < addressSegs {
		word := words[0]
		if len(word) > addressSegMax {
			words[0] = word[addressSegMax:]
			word = word[:addressSegMax]
		} else {
			words = words[1:]
		}

		switch {
		case segs[idx] == "":
			segs[idx] = word
		case len(segs[idx])+1+len(word) <= addressSegMax:
			segs[idx] += " " + word
		default:
			idx++
			if idx < addressSegs {
				segs[idx] = word
			}
		}
	}
	return segs
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
