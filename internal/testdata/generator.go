package testdata

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/jask/adminconsole/internal/users"
)

var (
	firstNames = []string{
		"Emily", "Michael", "Sophia", "James", "Emma", "Olivia", "Alexander", "Ava",
		"Ethan", "Isabella", "Liam", "Mia", "Noah", "Charlotte", "Lucas", "Amelia",
		"Mason", "Harper", "Logan", "Evelyn", "Jürgen", "Zoë", "Søren", "Chloé",
	}
	lastNames = []string{
		"Johnson", "Williams", "Brown", "Davis", "Miller", "Wilson", "Jones", "Taylor",
		"Martinez", "Anderson", "Garcia", "Rodriguez", "Thomas", "Moore", "Jackson", "White",
		"Harris", "Clark", "Lewis", "Walker", "Straße", "Müller", "Ångström", "Núñez",
	}
	domains = []string{"x.dummyjson.com", "example.com", "example.org", "mail.test"}
)

// Users returns n records with ids 1..n. The same seed always yields the same
// records.
func Users(n int, seed uint64) []users.Record {
	if n <= 0 {
		return []users.Record{}
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]users.Record, 0, n)
	for i := 1; i <= n; i++ {
		first := firstNames[rng.IntN(len(firstNames))]
		last := lastNames[rng.IntN(len(lastNames))]
		out = append(out, users.Record{
			ID:        i,
			FirstName: first,
			LastName:  last,
			Email:     emailFor(first, last, i, domains[rng.IntN(len(domains))]),
		})
	}
	return out
}

func emailFor(first, last string, id int, domain string) string {
	local := fmt.Sprintf("%s.%s%d", asciiLower(first), asciiLower(last), id)
	return local + "@" + domain
}

// asciiLower keeps only ASCII letters so generated addresses stay valid.
func asciiLower(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}
