// Package ident generates the human-readable identifiers carried by
// assessments, demand notices, payments and receipts. Uniqueness is the
// store's job; callers retry on a unique violation.
package ident

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const suffixLen = 6

func Application(now time.Time) string {
	return fmt.Sprintf("APP-%d-%s", now.Year(), Suffix())
}

func Assessment(now time.Time) string {
	return fmt.Sprintf("ASS-%d-%s", now.Year(), Suffix())
}

func Notice(now time.Time) string {
	return fmt.Sprintf("DN-%d-%s", now.Year(), Suffix())
}

// PaymentReference builds AMC-<type3>-<unix millis>-<suffix>. The type part is the
// first three letters of the service name, padded with X when shorter.
func PaymentReference(serviceName string, now time.Time) string {
	return fmt.Sprintf("AMC-%s-%d-%s", typeCode(serviceName), now.UnixMilli(), Suffix())
}

// Receipt builds AMAC/<year>/<revenue type>/<6 digits>.
func Receipt(revenueTypeCode string, now time.Time) string {
	code := strings.ToUpper(strings.TrimSpace(revenueTypeCode))
	if code == "" {
		code = "GEN"
	}

	return fmt.Sprintf("AMAC/%d/%s/%06d", now.Year(), code, randomInt(1_000_000))
}

// Suffix returns six random uppercase alphanumerics.
func Suffix() string {
	var b strings.Builder
	b.Grow(suffixLen)

	for range suffixLen {
		b.WriteByte(alphanumeric[randomInt(len(alphanumeric))])
	}

	return b.String()
}

func typeCode(serviceName string) string {
	var letters []rune

	for _, r := range strings.ToUpper(serviceName) {
		if r >= 'A' && r <= 'Z' {
			letters = append(letters, r)
		}

		if len(letters) == 3 {
			break
		}
	}

	for len(letters) < 3 {
		letters = append(letters, 'X')
	}

	return string(letters)
}

func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(fmt.Sprintf("ident: reading random: %v", err))
	}

	return int(v.Int64())
}
